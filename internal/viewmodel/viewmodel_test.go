package viewmodel

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/notify"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	mu sync.Mutex

	analyze  api.Result[api.AnalysisResponse]
	history  api.Result[[]common.Record]
	deleted  api.Result[api.Ack]
	cleared  api.Result[api.Ack]
	metrics  api.Result[api.Metrics]
	insights api.Result[api.RemoteInsights]

	calls    []string
	requests []common.Request
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Analyze(_ context.Context, req common.Request) api.Result[api.AnalysisResponse] {
	f.record("analyze")
	f.requests = append(f.requests, req)
	return f.analyze
}

func (f *fakeClient) History(context.Context) api.Result[[]common.Record] {
	f.record("history")
	return f.history
}

func (f *fakeClient) DeleteReview(_ context.Context, id common.ID) api.Result[api.Ack] {
	f.record("delete " + string(id))
	return f.deleted
}

func (f *fakeClient) ClearHistory(context.Context) api.Result[api.Ack] {
	f.record("clear")
	return f.cleared
}

func (f *fakeClient) Metrics(context.Context) api.Result[api.Metrics] {
	f.record("metrics")
	return f.metrics
}

func (f *fakeClient) Insights(context.Context) api.Result[api.RemoteInsights] {
	f.record("insights")
	return f.insights
}

// harness wires view-model dependencies and captures notifications
type harness struct {
	deps  Deps
	shown []notify.Notification
}

func newHarness() *harness {
	h := &harness{}
	n := notify.New(notify.WithClock(func() time.Time { return now }))
	n.Subscribe(func(note notify.Notification) { h.shown = append(h.shown, note) })
	h.deps = Deps{
		Store:    history.New(history.DefaultCapacity),
		Notifier: n,
		Now:      func() time.Time { return now },
	}
	return h
}

func (h *harness) only(t *testing.T, severity notify.Severity) string {
	t.Helper()
	require.Len(t, h.shown, 1)
	assert.Equal(t, severity, h.shown[0].Severity)
	return h.shown[0].Message
}

func record(id string, sentiment common.Sentiment, category string, age time.Duration) common.Record {
	return common.Record{
		ID:         common.ID(id),
		Text:       "review " + id,
		Category:   category,
		Rating:     4,
		Sentiment:  sentiment,
		Confidence: 0.8,
		Timestamp:  now.Add(-age),
	}
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	assert.False(t, s.IsCurrent(0))

	first := s.Next()
	assert.True(t, s.IsCurrent(first))

	second := s.Next()
	assert.False(t, s.IsCurrent(first))
	assert.True(t, s.IsCurrent(second))

	s.Invalidate()
	assert.False(t, s.IsCurrent(second))
}

func TestAnalysis_BlankTextIsRejectedWithoutRequest(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			h := newHarness()
			client := &fakeClient{}
			vm := NewAnalysis(client, h.deps)
			vm.SetText(text)

			err := vm.Submit(context.Background())

			assert.ErrorIs(t, err, ErrEmptyText)
			assert.Empty(t, client.calls)
			assert.Equal(t, MsgEmptyReview, h.only(t, notify.SeverityWarning))
			assert.Equal(t, StateIdle, vm.State())
		})
	}
}

func TestAnalysis_Success(t *testing.T) {
	h := newHarness()
	h.deps.Store.Add(record("old", common.SentimentNegative, "Books", time.Hour))
	client := &fakeClient{analyze: api.Result[api.AnalysisResponse]{
		Success: true,
		Data: api.AnalysisResponse{
			Sentiment:  common.SentimentPositive,
			Confidence: 0.9,
			Text:       "Great!",
			Category:   "Electronics",
			Rating:     5,
			Timestamp:  now,
		},
	}}
	vm := NewAnalysis(client, h.deps)
	vm.newID = func() common.ID { return "generated" }
	vm.SetText("Great!")
	vm.SetCategory("Electronics")
	vm.SetRating(5)

	require.NoError(t, vm.Submit(context.Background()))

	view, ok := vm.Result()
	require.True(t, ok)
	assert.Equal(t, "Positive Sentiment", view.Label)
	assert.Equal(t, "90%", view.Confidence)
	assert.Equal(t, "Electronics", view.Category)
	assert.Equal(t, 5, view.Rating)
	assert.NotEmpty(t, view.Timestamp)

	assert.Equal(t, []common.Request{{Text: "Great!", Category: "Electronics", Rating: 5}}, client.requests)
	assert.Equal(t, 2, h.deps.Store.Len())
	front := h.deps.Store.Records()[0]
	assert.Equal(t, common.ID("generated"), front.ID)
	assert.Equal(t, "Great!", front.Text)
	assert.Equal(t, MsgAnalysisComplete, h.only(t, notify.SeveritySuccess))
	assert.Equal(t, StateIdle, vm.State())
}

func TestAnalysis_KeepsServerID(t *testing.T) {
	h := newHarness()
	client := &fakeClient{analyze: api.Result[api.AnalysisResponse]{
		Success: true,
		Data:    api.AnalysisResponse{ID: "42", Sentiment: common.SentimentNegative, Text: "meh", Rating: 2},
	}}
	vm := NewAnalysis(client, h.deps)
	vm.SetText("meh")

	require.NoError(t, vm.Submit(context.Background()))

	_, ok := h.deps.Store.Get("42")
	assert.True(t, ok)
}

func TestAnalysis_Failures(t *testing.T) {
	tests := []struct {
		name string
		res  api.Result[api.AnalysisResponse]
		want string
	}{
		{
			name: "application",
			res:  api.Result[api.AnalysisResponse]{Kind: api.KindApplication, Message: "model unavailable"},
			want: "Analysis failed: model unavailable",
		},
		{
			name: "transport",
			res:  api.Result[api.AnalysisResponse]{Kind: api.KindTransport, Message: "Server responded with status: 500", StatusCode: 500},
			want: "Error: Server responded with status: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.deps.Store.Add(record("1", common.SentimentPositive, "Books", 0))
			vm := NewAnalysis(&fakeClient{analyze: tt.res}, h.deps)
			vm.SetText("anything")

			err := vm.Submit(context.Background())

			require.Error(t, err)
			assert.Equal(t, tt.want, h.only(t, notify.SeverityError))
			assert.Equal(t, 1, h.deps.Store.Len())
			assert.Equal(t, StateIdle, vm.State())
			_, ok := vm.Result()
			assert.False(t, ok)
		})
	}
}

func TestAnalysis_RejectsWhileAnalyzing(t *testing.T) {
	h := newHarness()
	vm := NewAnalysis(&fakeClient{}, h.deps)
	vm.SetText("first")

	ticket, _, err := vm.Begin()
	require.NoError(t, err)
	assert.Equal(t, StateAnalyzing, vm.State())

	_, _, err = vm.Begin()
	assert.ErrorIs(t, err, ErrBusy)

	assert.True(t, vm.Complete(ticket, api.Result[api.AnalysisResponse]{Kind: api.KindTransport, Message: "x"}))
	assert.Equal(t, StateIdle, vm.State())
}

func TestAnalysis_StaleResultIsDiscarded(t *testing.T) {
	h := newHarness()
	vm := NewAnalysis(&fakeClient{}, h.deps)
	vm.SetText("first")

	ticket, _, err := vm.Begin()
	require.NoError(t, err)
	vm.Cancel()

	applied := vm.Complete(ticket, api.Result[api.AnalysisResponse]{
		Success: true,
		Data:    api.AnalysisResponse{Sentiment: common.SentimentPositive, Text: "first", Rating: 5},
	})

	assert.False(t, applied)
	assert.Equal(t, 0, h.deps.Store.Len())
	assert.Empty(t, h.shown)
}

func TestAnalysis_UseSample(t *testing.T) {
	vm := NewAnalysis(&fakeClient{}, newHarness().deps)

	require.NoError(t, vm.UseSample(1))
	form := vm.Form()
	assert.Equal(t, "Home & Kitchen", form.Category)
	assert.Equal(t, 2, form.Rating)
	assert.True(t, strings.HasPrefix(form.Text, "I'm very disappointed"))

	assert.Error(t, vm.UseSample(5))
	assert.Error(t, vm.UseSample(-1))
	assert.Len(t, SampleReviews(), 5)
}

func TestAnalysis_SetRatingClamps(t *testing.T) {
	vm := NewAnalysis(&fakeClient{}, newHarness().deps)

	vm.SetRating(9)
	assert.Equal(t, 5, vm.Form().Rating)
	vm.SetRating(0)
	assert.Equal(t, 1, vm.Form().Rating)
}

func TestHistory_LoadRemote(t *testing.T) {
	h := newHarness()
	records := []common.Record{
		record("b", common.SentimentPositive, "Books", 0),
		record("a", common.SentimentNegative, "Toys", time.Hour),
	}
	vm := NewHistory(&fakeClient{history: api.Result[[]common.Record]{Success: true, Data: records}}, h.deps)

	o := vm.Load(context.Background())

	assert.Equal(t, history.SourceRemote, o.Source)
	assert.Equal(t, history.SourceRemote, vm.Source())
	assert.Equal(t, records, h.deps.Store.Records())
	assert.Empty(t, h.shown)
	assert.False(t, vm.Loading())
}

func TestHistory_LoadFailureFallsBackToSample(t *testing.T) {
	h := newHarness()
	vm := NewHistory(&fakeClient{history: api.Result[[]common.Record]{
		Kind:    api.KindTransport,
		Message: "connection refused",
	}}, h.deps)

	o := vm.Load(context.Background())

	assert.Equal(t, history.SourceSample, o.Source)
	assert.Equal(t, 5, h.deps.Store.Len())
	assert.Equal(t, "Error loading history: connection refused", h.only(t, notify.SeverityError))
}

func TestHistory_EmptyRemoteUsesSampleSilently(t *testing.T) {
	h := newHarness()
	vm := NewHistory(&fakeClient{history: api.Result[[]common.Record]{Success: true}}, h.deps)

	vm.Load(context.Background())

	assert.Equal(t, history.SourceSample, vm.Source())
	assert.Equal(t, 5, h.deps.Store.Len())
	assert.Empty(t, h.shown)
}

func TestHistory_StaleLoadIsDiscarded(t *testing.T) {
	h := newHarness()
	vm := NewHistory(&fakeClient{}, h.deps)

	first := vm.BeginLoad()
	second := vm.BeginLoad()

	assert.False(t, vm.CompleteLoad(first, history.Outcome{Records: []common.Record{record("old", common.SentimentPositive, "Books", 0)}, Source: history.SourceRemote}))
	assert.Equal(t, 0, h.deps.Store.Len())
	assert.True(t, vm.Loading())

	assert.True(t, vm.CompleteLoad(second, history.Outcome{Records: []common.Record{record("new", common.SentimentPositive, "Books", 0)}, Source: history.SourceRemote}))
	_, ok := h.deps.Store.Get("new")
	assert.True(t, ok)
}

func fillStore(store *history.Store, n int) {
	for i := n; i >= 1; i-- {
		sentiment := common.SentimentPositive
		if i%2 == 0 {
			sentiment = common.SentimentNegative
		}
		store.Add(record(fmt.Sprint(i), sentiment, "Books", time.Duration(i)*time.Minute))
	}
}

func TestHistory_Pagination(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 25)
	vm := NewHistory(&fakeClient{}, h.deps, WithPageSize(10))

	page := vm.Page()
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 10)

	vm.NextPage()
	vm.NextPage()
	vm.NextPage()
	page = vm.Page()
	assert.Equal(t, 3, page.Number)
	assert.Len(t, page.Items, 5)

	vm.GoTo(99)
	assert.Equal(t, 3, vm.Page().Number)

	vm.PrevPage()
	assert.Equal(t, 2, vm.Page().Number)

	vm.GoTo(-4)
	assert.Equal(t, 1, vm.Page().Number)
}

func TestHistory_FilterResetsPage(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 25)
	vm := NewHistory(&fakeClient{}, h.deps, WithPageSize(10))
	vm.GoTo(3)

	vm.SetSentiment(common.SentimentPositive)

	page := vm.Page()
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 13, page.TotalItems)
	for _, r := range vm.Filtered() {
		assert.Equal(t, common.SentimentPositive, r.Sentiment)
	}

	vm.GoTo(2)
	vm.SetCategory("all")
	assert.Equal(t, 1, vm.Page().Number)
	assert.Equal(t, 13, vm.Summary().Total)
}

func TestHistory_Delete(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 3)
	client := &fakeClient{deleted: api.Result[api.Ack]{Success: true}}
	vm := NewHistory(client, h.deps)

	require.NoError(t, vm.Delete(context.Background(), "2"))

	_, ok := h.deps.Store.Get("2")
	assert.False(t, ok)
	assert.Equal(t, []string{"delete 2"}, client.calls)
	assert.Equal(t, MsgReviewDeleted, h.only(t, notify.SeveritySuccess))
}

func TestHistory_DeleteFailureKeepsRecord(t *testing.T) {
	tests := []struct {
		name string
		res  api.Result[api.Ack]
		want string
	}{
		{"application", api.Result[api.Ack]{Kind: api.KindApplication, Message: "Review not found"}, MsgDeleteFailed},
		{"transport", api.Result[api.Ack]{Kind: api.KindTransport, Message: "timeout"}, "Error: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			fillStore(h.deps.Store, 3)
			vm := NewHistory(&fakeClient{deleted: tt.res}, h.deps)

			assert.Error(t, vm.Delete(context.Background(), "2"))

			assert.Equal(t, 3, h.deps.Store.Len())
			assert.Equal(t, tt.want, h.only(t, notify.SeverityError))
		})
	}
}

func TestHistory_Clear(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 12)
	vm := NewHistory(&fakeClient{cleared: api.Result[api.Ack]{Success: true}}, h.deps)
	vm.GoTo(2)

	require.NoError(t, vm.Clear(context.Background()))

	assert.Equal(t, 0, h.deps.Store.Len())
	assert.Equal(t, 1, vm.Page().Number)
	assert.Equal(t, MsgHistoryCleared, h.only(t, notify.SeveritySuccess))
}

func TestHistory_ClearFailure(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 2)
	vm := NewHistory(&fakeClient{cleared: api.Result[api.Ack]{Kind: api.KindTransport, Message: "down"}}, h.deps)

	assert.Error(t, vm.Clear(context.Background()))
	assert.Equal(t, 2, h.deps.Store.Len())
	assert.Equal(t, MsgClearFailed, h.only(t, notify.SeverityError))
}

func TestHistory_ExportFilteredOnly(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 4)
	vm := NewHistory(&fakeClient{}, h.deps)
	vm.SetSentiment(common.SentimentNegative)

	var buf bytes.Buffer
	require.NoError(t, vm.Export(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(history.CSVHeader, ","), lines[0])
	for _, line := range lines[1:] {
		assert.Contains(t, line, ",Negative,")
	}
}

func TestInsights_Defaults(t *testing.T) {
	f := DefaultInsightsFilters()

	assert.Equal(t, 30, f.Days)
	assert.Equal(t, 0, f.Rating)
	assert.Equal(t, "", f.Category)
	assert.Equal(t, insights.GranularityMonth, f.Granularity)
}

func TestInsights_ApplyIsIdempotent(t *testing.T) {
	h := newHarness()
	h.deps.Store.Add(record("1", common.SentimentPositive, "Books", 24*time.Hour))
	h.deps.Store.Add(record("2", common.SentimentNegative, "Toys", 48*time.Hour))
	h.deps.Store.Add(record("3", common.SentimentPositive, "Toys", 90*24*time.Hour))
	vm := NewInsights(&fakeClient{}, h.deps)

	first := vm.Apply()
	second := vm.Apply()

	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 50.0, first.PositivePercent)
	require.Len(t, h.shown, 2)
	assert.Equal(t, MsgFiltersApplied, h.shown[0].Message)
}

func TestInsights_FiltersRestrictInput(t *testing.T) {
	h := newHarness()
	h.deps.Store.Add(record("1", common.SentimentPositive, "Books", 24*time.Hour))
	h.deps.Store.Add(record("2", common.SentimentNegative, "Toys", 48*time.Hour))
	h.deps.Store.Add(record("3", common.SentimentPositive, "Toys", 90*24*time.Hour))
	vm := NewInsights(&fakeClient{}, h.deps)

	f := vm.Filters()
	f.Category = "Toys"
	f.Days = 0
	vm.SetFilters(f)
	agg := vm.Apply()

	assert.Equal(t, 2, agg.Total)
	require.Len(t, agg.Categories, 1)
	assert.Equal(t, "Toys", agg.Categories[0].Label)

	f.Rating = 5
	vm.SetFilters(f)
	assert.Equal(t, 0, vm.Apply().Total)
}

func TestInsights_RenderDrawsLastAggregate(t *testing.T) {
	h := newHarness()
	h.deps.Store.Add(record("1", common.SentimentPositive, "Books", time.Hour))
	vm := NewInsights(&fakeClient{}, h.deps)
	vm.Refresh()

	rec := &chart.Recorder{}
	vm.Render(rec)

	assert.Equal(t, []string{"sentiment", "categories", "trend"}, rec.Calls)
	assert.Equal(t, 1, rec.Sentiment.Positive)
	assert.Empty(t, h.shown)
}

func TestInsights_LoadRemote(t *testing.T) {
	tests := []struct {
		name     string
		res      api.Result[api.RemoteInsights]
		wantMsg  string
		wantData bool
	}{
		{
			name:     "success",
			res:      api.Result[api.RemoteInsights]{Success: true, Data: api.RemoteInsights{Trend: api.Series{Labels: []string{"Jan"}}}},
			wantData: true,
		},
		{
			name:    "application",
			res:     api.Result[api.RemoteInsights]{Kind: api.KindApplication, Message: "nope"},
			wantMsg: MsgInsightsUnavailable,
		},
		{
			name:    "transport",
			res:     api.Result[api.RemoteInsights]{Kind: api.KindTransport, Message: "Server responded with status: 503"},
			wantMsg: "Error loading insights: Server responded with status: 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			vm := NewInsights(&fakeClient{insights: tt.res}, h.deps)

			_ = vm.LoadRemote(context.Background())

			remote, ok := vm.Remote()
			assert.Equal(t, tt.wantData, ok)
			if tt.wantData {
				assert.Equal(t, []string{"Jan"}, remote.Trend.Labels)
				assert.Empty(t, h.shown)
				return
			}
			assert.Equal(t, tt.wantMsg, h.only(t, notify.SeverityError))
		})
	}
}

func TestInsights_StaleRemoteIsDiscarded(t *testing.T) {
	h := newHarness()
	vm := NewInsights(&fakeClient{}, h.deps)

	first := vm.BeginRemote()
	_ = vm.BeginRemote()

	assert.False(t, vm.CompleteRemote(first, api.Result[api.RemoteInsights]{Success: true}))
	_, ok := vm.Remote()
	assert.False(t, ok)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"all", 0, false},
		{"", 0, false},
		{"30", 30, false},
		{" 7 ", 7, false},
		{"-1", 0, true},
		{"week", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseChoice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDashboard_ServerMetrics(t *testing.T) {
	h := newHarness()
	served := api.Metrics{TotalReviews: 10, PositivePercent: 70, NegativePercent: 30}
	vm := NewDashboard(&fakeClient{metrics: api.Result[api.Metrics]{Success: true, Data: served}}, h.deps)

	m, origin := vm.LoadMetrics(context.Background())

	assert.Equal(t, OriginServer, origin)
	assert.Equal(t, served, m)
}

func TestDashboard_FallsBackToLocal(t *testing.T) {
	h := newHarness()
	h.deps.Store.Add(record("1", common.SentimentPositive, "Books", 0))
	h.deps.Store.Add(record("2", common.SentimentPositive, "Toys", 0))
	h.deps.Store.Add(record("3", common.SentimentNegative, "Books", 0))
	vm := NewDashboard(&fakeClient{metrics: api.Result[api.Metrics]{Kind: api.KindTransport, Message: "down"}}, h.deps)

	m, origin := vm.LoadMetrics(context.Background())

	assert.Equal(t, OriginLocal, origin)
	assert.Equal(t, 3, m.TotalReviews)
	assert.Equal(t, 66.7, m.PositivePercent)
	assert.Equal(t, 33.3, m.NegativePercent)
	assert.Equal(t, map[string]int{"Books": 2, "Toys": 1}, m.Categories)
	assert.Empty(t, h.shown)
}

func TestDashboard_Recent(t *testing.T) {
	h := newHarness()
	fillStore(h.deps.Store, 8)
	vm := NewDashboard(&fakeClient{}, h.deps)

	recent := vm.Recent()

	require.Len(t, recent, RecentCount)
	assert.Equal(t, common.ID("1"), recent[0].ID)
}

func TestHistory_ReloadKeepsAnalysisFinishedMeanwhile(t *testing.T) {
	h := newHarness()
	remote := []common.Record{record("old", common.SentimentNegative, "Books", time.Hour)}
	hist := NewHistory(&fakeClient{history: api.Result[[]common.Record]{Success: true, Data: remote}}, h.deps)
	analysis := NewAnalysis(&fakeClient{}, h.deps)
	analysis.SetText("Great!")

	ticket := hist.BeginLoad()
	outcome := hist.Fetch(context.Background())

	analyzed, _, err := analysis.Begin()
	require.NoError(t, err)
	require.True(t, analysis.Complete(analyzed, api.Result[api.AnalysisResponse]{
		Success: true,
		Data:    api.AnalysisResponse{ID: "new", Sentiment: common.SentimentPositive, Text: "Great!", Rating: 5, Timestamp: now},
	}))

	require.True(t, hist.CompleteLoad(ticket, outcome))

	records := h.deps.Store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, common.ID("new"), records[0].ID)
	assert.Equal(t, common.ID("old"), records[1].ID)
	assert.False(t, hist.Loading())
}

func TestHistory_ReloadDoesNotResurrectDeletedRecord(t *testing.T) {
	h := newHarness()
	remote := []common.Record{
		record("a", common.SentimentPositive, "Books", time.Minute),
		record("b", common.SentimentNegative, "Books", time.Hour),
	}
	client := &fakeClient{
		history: api.Result[[]common.Record]{Success: true, Data: remote},
		deleted: api.Result[api.Ack]{Success: true},
	}
	vm := NewHistory(client, h.deps)
	vm.Load(context.Background())

	ticket := vm.BeginLoad()
	outcome := vm.Fetch(context.Background())
	require.NoError(t, vm.Delete(context.Background(), "b"))

	require.True(t, vm.CompleteLoad(ticket, outcome))

	_, ok := h.deps.Store.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, h.deps.Store.Len())
}

func TestHistory_ReloadAcrossClearIsDropped(t *testing.T) {
	h := newHarness()
	remote := []common.Record{record("a", common.SentimentPositive, "Books", time.Minute)}
	client := &fakeClient{
		history: api.Result[[]common.Record]{Success: true, Data: remote},
		cleared: api.Result[api.Ack]{Success: true},
	}
	vm := NewHistory(client, h.deps)
	vm.Load(context.Background())

	ticket := vm.BeginLoad()
	outcome := vm.Fetch(context.Background())
	require.NoError(t, vm.Clear(context.Background()))

	assert.False(t, vm.CompleteLoad(ticket, outcome))
	assert.Equal(t, 0, h.deps.Store.Len())
	assert.False(t, vm.Loading())
}
