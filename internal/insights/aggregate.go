package insights

import (
	"strings"
	"time"

	"github.com/yildizm/SentiDash/internal/common"
)

// DefaultDays is the time range preselected in the insights filters
const DefaultDays = 30

// Filter restricts the records an aggregate is computed over. Zero fields
// match everything.
type Filter struct {
	Category string
	Days     int
	Rating   int
}

// ClockSkew is how far past now a record may be dated and still fall in a
// time range. Server timestamps can run slightly ahead of the local clock.
const ClockSkew = time.Minute

// Apply returns the records passing the filter, preserving order. A time
// range is the rolling window (now-Days, now+ClockSkew].
func (f Filter) Apply(records []common.Record, now time.Time) []common.Record {
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	var cutoff, horizon time.Time
	if f.Days > 0 {
		cutoff = now.Add(-time.Duration(f.Days) * 24 * time.Hour)
		horizon = now.Add(ClockSkew)
	}

	out := make([]common.Record, 0, len(records))
	for _, r := range records {
		if category != "" && r.Category != category {
			continue
		}
		if f.Rating > 0 && r.Rating != f.Rating {
			continue
		}
		if !cutoff.IsZero() && (r.Timestamp.Before(cutoff) || r.Timestamp.After(horizon)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CategoryCount is one bar of the category distribution
type CategoryCount struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
}

// PositivePercent returns the positive share of the category
func (c CategoryCount) PositivePercent() float64 {
	return percent(c.Positive, c.Count)
}

// Aggregate is the chart-ready summary of a set of records. It is derived
// data and never persisted.
type Aggregate struct {
	Total           int                   `json:"total"`
	Positive        int                   `json:"positive"`
	Negative        int                   `json:"negative"`
	PositivePercent float64               `json:"positive_percent"`
	NegativePercent float64               `json:"negative_percent"`
	AvgConfidence   float64               `json:"avg_confidence"`
	Categories      []CategoryCount       `json:"categories"`
	Ratings         [common.MaxRating]int `json:"ratings"`
	Trend           Trend                 `json:"trend"`
}

// RatingCount returns the number of records with the given star rating
func (a Aggregate) RatingCount(rating int) int {
	if rating < common.MinRating || rating > common.MaxRating {
		return 0
	}
	return a.Ratings[rating-1]
}

// Compute aggregates records after applying filter. It is pure: the same
// input always gives the same aggregate.
func Compute(records []common.Record, filter Filter, granularity Granularity, now time.Time) Aggregate {
	return Summarize(filter.Apply(records, now), granularity)
}

// Summarize aggregates records without filtering
func Summarize(records []common.Record, granularity Granularity) Aggregate {
	agg := Aggregate{
		Total:      len(records),
		Categories: []CategoryCount{},
	}

	index := make(map[string]int)
	var confidence float64
	for _, r := range records {
		confidence += r.Confidence

		i, ok := index[r.Category]
		if !ok {
			i = len(agg.Categories)
			index[r.Category] = i
			agg.Categories = append(agg.Categories, CategoryCount{Label: r.Category})
		}
		agg.Categories[i].Count++

		switch r.Sentiment {
		case common.SentimentPositive:
			agg.Positive++
			agg.Categories[i].Positive++
		case common.SentimentNegative:
			agg.Negative++
			agg.Categories[i].Negative++
		}

		if r.Rating >= common.MinRating && r.Rating <= common.MaxRating {
			agg.Ratings[r.Rating-1]++
		}
	}

	agg.PositivePercent = percent(agg.Positive, agg.Total)
	agg.NegativePercent = percent(agg.Negative, agg.Total)
	if agg.Total > 0 {
		agg.AvgConfidence = confidence / float64(agg.Total)
	}
	agg.Trend = BuildTrend(records, granularity)
	return agg
}

// percent returns part/total*100, or 0 when total is 0
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
