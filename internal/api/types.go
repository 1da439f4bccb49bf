package api

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/yildizm/SentiDash/internal/common"
)

// AnalysisResponse is the normalized outcome of POST /predict
type AnalysisResponse struct {
	ID         common.ID        `json:"id,omitempty"`
	Sentiment  common.Sentiment `json:"sentiment"`
	Confidence float64          `json:"confidence"`
	Text       string           `json:"text"`
	Category   string           `json:"category"`
	Rating     int              `json:"rating"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Record converts the response into a history record
func (r AnalysisResponse) Record(id common.ID) common.Record {
	return common.Record{
		ID:         id,
		Text:       r.Text,
		Category:   r.Category,
		Rating:     r.Rating,
		Sentiment:  r.Sentiment,
		Confidence: r.Confidence,
		Timestamp:  r.Timestamp,
	}
}

// Ack is the body of mutation endpoints
type Ack struct {
	Message string `json:"message,omitempty"`
}

// SentimentCounts holds the positive and negative totals
type SentimentCounts struct {
	Positive int `json:"Positive"`
	Negative int `json:"Negative"`
}

// Metrics is the body of GET /api/metrics
type Metrics struct {
	TotalReviews    int             `json:"total_reviews"`
	PositivePercent float64         `json:"positive_percent"`
	NegativePercent float64         `json:"negative_percent"`
	Sentiments      SentimentCounts `json:"sentiments"`
	Categories      map[string]int  `json:"categories"`
}

// CategoryLabels returns the category labels sorted by name
func (m Metrics) CategoryLabels() []string {
	labels := make([]string, 0, len(m.Categories))
	for label := range m.Categories {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Series is a labelled pair of positive/negative values
type Series struct {
	Labels   []string  `json:"labels"`
	Positive []float64 `json:"positive"`
	Negative []float64 `json:"negative"`
}

// RemoteInsights is the insights object computed by the server
type RemoteInsights struct {
	Trend      Series `json:"trend_data"`
	Categories Series `json:"category_data"`
}

// ModelInfo is opaque model metadata
type ModelInfo map[string]any

// envelope carries the fields every endpoint may set
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type predictWire struct {
	ID            common.ID     `json:"id"`
	Sentiment     label         `json:"sentiment"`
	SentimentText label         `json:"sentiment_text"`
	Confidence    float64       `json:"confidence"`
	Timestamp     string        `json:"timestamp"`
	Review        common.Record `json:"review"`
}

// label accepts a sentiment given as a string or as a 0/1 number
type label string

func (l *label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = label(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	*l = label(data)
	return nil
}

type historyWire struct {
	History []common.Record `json:"history"`
	Reviews []common.Record `json:"reviews"`
}

// records returns the history newest first. The {history} shape is already
// newest first, the {reviews} shape is append-ordered and gets reversed.
func (w historyWire) records() []common.Record {
	if w.History != nil {
		return w.History
	}
	out := make([]common.Record, len(w.Reviews))
	for i, r := range w.Reviews {
		out[len(w.Reviews)-1-i] = r
	}
	return out
}

type insightsWire struct {
	Insights RemoteInsights `json:"insights"`
}
