package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SentiDash/internal/common"
)

func rec(id string, sentiment common.Sentiment, category string) common.Record {
	return common.Record{
		ID:         common.ID(id),
		Text:       "review " + id,
		Category:   category,
		Rating:     3,
		Sentiment:  sentiment,
		Confidence: 0.8,
		Timestamp:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore_AddPrependsAndCaps(t *testing.T) {
	s := New(100)

	for i := 1; i <= 150; i++ {
		s.Add(rec(fmt.Sprint(i), common.SentimentPositive, "Books"))
		require.LessOrEqual(t, s.Len(), 100)
	}

	records := s.Records()
	require.Len(t, records, 100)
	assert.Equal(t, common.ID("150"), records[0].ID)
	assert.Equal(t, common.ID("51"), records[99].ID)

	_, ok := s.Get("50")
	assert.False(t, ok, "oldest records are evicted first")
}

func TestStore_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, 7, New(7).Capacity())
}

func TestStore_DuplicateIDReplaces(t *testing.T) {
	s := New(10)
	s.Add(rec("1", common.SentimentPositive, "Books"))
	s.Add(rec("2", common.SentimentPositive, "Books"))

	updated := rec("1", common.SentimentNegative, "Toys")
	s.Add(updated)

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, updated, records[0])
	assert.Equal(t, common.ID("2"), records[1].ID)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := New(10)
	s.Add(rec("1", common.SentimentPositive, "Books"))

	for _, id := range []common.ID{"1", "1", "never-there"} {
		s.Delete(id)
		_, ok := s.Get(id)
		assert.False(t, ok, "id %s", id)
	}
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Delete("1"))
}

func TestStore_RecordsIsACopy(t *testing.T) {
	s := New(10)
	s.Add(rec("1", common.SentimentPositive, "Books"))

	records := s.Records()
	records[0].Text = "changed"

	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "review 1", got.Text)
}

func TestStore_ReplaceDedupsAndCaps(t *testing.T) {
	s := New(2)
	s.Replace([]common.Record{
		rec("a", common.SentimentPositive, "Books"),
		rec("a", common.SentimentNegative, "Books"),
		rec("b", common.SentimentPositive, "Books"),
		rec("c", common.SentimentPositive, "Books"),
	})

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, common.ID("a"), records[0].ID)
	assert.Equal(t, common.SentimentPositive, records[0].Sentiment)
	assert.Equal(t, common.ID("b"), records[1].ID)
}

func TestStore_RecentAndClear(t *testing.T) {
	s := New(10)
	for i := 1; i <= 7; i++ {
		s.Add(rec(fmt.Sprint(i), common.SentimentPositive, "Books"))
	}

	recent := s.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, common.ID("7"), recent[0].ID)
	assert.Len(t, s.Recent(50), 7)
	assert.Empty(t, s.Recent(-1))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_ReplaceSinceReplaysLocalChanges(t *testing.T) {
	s := New(10)
	s.Replace([]common.Record{rec("a", common.SentimentPositive, "Books"), rec("b", common.SentimentNegative, "Books")})

	since := s.Generation()
	s.Add(rec("fresh", common.SentimentPositive, "Books"))
	assert.True(t, s.Delete("b"))

	applied := s.ReplaceSince(since, []common.Record{
		rec("a", common.SentimentPositive, "Books"),
		rec("b", common.SentimentNegative, "Books"),
		rec("c", common.SentimentPositive, "Toys"),
	})
	require.True(t, applied)

	var ids []common.ID
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []common.ID{"fresh", "a", "c"}, ids)
}

func TestStore_ReplaceSinceWithoutChanges(t *testing.T) {
	s := New(10)
	since := s.Generation()

	require.True(t, s.ReplaceSince(since, []common.Record{rec("a", common.SentimentPositive, "Books")}))
	assert.Equal(t, 1, s.Len())
}

func TestStore_ReplaceSinceRefusedAfterClear(t *testing.T) {
	s := New(10)
	s.Add(rec("a", common.SentimentPositive, "Books"))
	since := s.Generation()
	s.Clear()

	assert.False(t, s.ReplaceSince(since, []common.Record{rec("a", common.SentimentPositive, "Books")}))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ReplaceSinceRefusedWhenJournalIsTrimmed(t *testing.T) {
	s := New(2)
	since := s.Generation()
	for i := 0; i < 20; i++ {
		s.Add(rec(fmt.Sprint(i), common.SentimentPositive, "Books"))
	}

	assert.False(t, s.ReplaceSince(since, nil))
	assert.Equal(t, 2, s.Len())
}

func TestStore_DeleteAbsentKeepsGeneration(t *testing.T) {
	s := New(10)
	gen := s.Generation()

	assert.False(t, s.Delete("missing"))
	assert.Equal(t, gen, s.Generation())
}
