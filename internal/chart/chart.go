// Package chart turns aggregates into the three series a chart surface
// draws. Surfaces implement Bridge and own no business state.
package chart

import (
	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/insights"
)

// SentimentSeries is the two-slice sentiment distribution
type SentimentSeries struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Total returns Positive+Negative
func (s SentimentSeries) Total() int {
	return s.Positive + s.Negative
}

// CategorySeries maps category labels to counts, in parallel slices
type CategorySeries struct {
	Labels   []string `json:"labels"`
	Counts   []int    `json:"counts"`
	Positive []int    `json:"positive,omitempty"`
	Negative []int    `json:"negative,omitempty"`
}

// TrendSeries holds positive/negative percentages per time label
type TrendSeries struct {
	Labels   []string  `json:"labels"`
	Positive []float64 `json:"positive"`
	Negative []float64 `json:"negative"`
}

// RatingSeries counts records per star rating, index 0 is one star
type RatingSeries struct {
	Counts [common.MaxRating]int `json:"counts"`
}

// Bridge is a chart surface
type Bridge interface {
	DrawSentiment(SentimentSeries)
	DrawCategories(CategorySeries)
	DrawTrend(TrendSeries)
}

// RatingDrawer is implemented by surfaces that also show the rating histogram
type RatingDrawer interface {
	DrawRatings(RatingSeries)
}

// Series holds everything Render draws, computed up front
type Series struct {
	Sentiment  SentimentSeries
	Categories CategorySeries
	Trend      TrendSeries
	Ratings    RatingSeries
}

// FromAggregate derives the chart series of an aggregate
func FromAggregate(agg insights.Aggregate) Series {
	categories := CategorySeries{
		Labels:   make([]string, 0, len(agg.Categories)),
		Counts:   make([]int, 0, len(agg.Categories)),
		Positive: make([]int, 0, len(agg.Categories)),
		Negative: make([]int, 0, len(agg.Categories)),
	}
	for _, c := range agg.Categories {
		categories.Labels = append(categories.Labels, c.Label)
		categories.Counts = append(categories.Counts, c.Count)
		categories.Positive = append(categories.Positive, c.Positive)
		categories.Negative = append(categories.Negative, c.Negative)
	}

	return Series{
		Sentiment:  SentimentSeries{Positive: agg.Positive, Negative: agg.Negative},
		Categories: categories,
		Trend: TrendSeries{
			Labels:   agg.Trend.Labels,
			Positive: agg.Trend.Positive,
			Negative: agg.Trend.Negative,
		},
		Ratings: RatingSeries{Counts: agg.Ratings},
	}
}

// FromMetrics derives the sentiment and category series of server metrics
func FromMetrics(m api.Metrics) (SentimentSeries, CategorySeries) {
	labels := m.CategoryLabels()
	counts := make([]int, 0, len(labels))
	for _, label := range labels {
		counts = append(counts, m.Categories[label])
	}
	return SentimentSeries{Positive: m.Sentiments.Positive, Negative: m.Sentiments.Negative},
		CategorySeries{Labels: labels, Counts: counts}
}

// FromRemote derives the trend series of server-computed insights
func FromRemote(ri api.RemoteInsights) TrendSeries {
	return TrendSeries{
		Labels:   ri.Trend.Labels,
		Positive: ri.Trend.Positive,
		Negative: ri.Trend.Negative,
	}
}

// Render draws agg on b: one DrawSentiment, one DrawCategories and one
// DrawTrend call, plus DrawRatings when b is a RatingDrawer.
func Render(b Bridge, agg insights.Aggregate) {
	Draw(b, FromAggregate(agg))
}

// Draw issues the draw calls for precomputed series
func Draw(b Bridge, s Series) {
	b.DrawSentiment(s.Sentiment)
	b.DrawCategories(s.Categories)
	b.DrawTrend(s.Trend)
	if rd, ok := b.(RatingDrawer); ok {
		rd.DrawRatings(s.Ratings)
	}
}
