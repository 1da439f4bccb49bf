package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/monitor"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is what one CLI command prints. Only the non-nil sections are
// written, in field order.
type Report struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`

	Analysis *common.Record   `json:"analysis,omitempty"`
	History  *HistorySection  `json:"history,omitempty"`
	Insights *InsightsSection `json:"insights,omitempty"`
	Metrics  *MetricsSection  `json:"metrics,omitempty"`
	Model    api.ModelInfo    `json:"model,omitempty"`
}

// HistorySection is one page of the review history. Records, when set, is
// the whole filtered view the page was cut from; CSV output writes it.
type HistorySection struct {
	Records  []common.Record  `json:"-"`
	Page     history.Page     `json:"page"`
	Summary  history.Summary  `json:"summary"`
	Criteria history.Criteria `json:"criteria"`
	Source   history.Source   `json:"source"`
}

// InsightsSection is a locally computed aggregate, optionally with the
// server's own series
type InsightsSection struct {
	Aggregate   insights.Aggregate   `json:"aggregate"`
	Direction   insights.Direction   `json:"direction"`
	Filter      insights.Filter      `json:"filter"`
	Granularity insights.Granularity `json:"granularity"`
	Remote      *api.RemoteInsights  `json:"remote,omitempty"`
}

// MetricsSection holds server counters and client request statistics
type MetricsSection struct {
	Metrics  api.Metrics               `json:"metrics"`
	Origin   string                    `json:"origin"`
	Requests []monitor.EndpointMetrics `json:"requests,omitempty"`
}

// Options control human-readable output
type Options struct {
	Color bool
	Emoji bool
	// TimeLayout formats record timestamps
	TimeLayout string
}

// New returns the formatter for format: text, json, markdown or csv
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(opts), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(opts), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}

func (o Options) timeLayout() string {
	if o.TimeLayout == "" {
		return history.CSVDateLayout
	}
	return o.TimeLayout
}
