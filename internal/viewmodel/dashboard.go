package viewmodel

import (
	"context"
	"math"
	"sync"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/logger"
)

// RecentCount is the number of reviews listed on the dashboard
const RecentCount = 5

// MetricsSource is the part of the API client the dashboard needs
type MetricsSource interface {
	Metrics(ctx context.Context) api.Result[api.Metrics]
}

// Origin tells whether dashboard metrics came from the server
type Origin string

const (
	OriginServer Origin = "server"
	OriginLocal  Origin = "local"
)

// Dashboard shows the metric cards and the most recent reviews
type Dashboard struct {
	mu      sync.Mutex
	client  MetricsSource
	deps    Deps
	seq     Sequencer
	metrics api.Metrics
	origin  Origin
}

// NewDashboard creates the dashboard view-model showing local metrics
func NewDashboard(client MetricsSource, deps Deps) *Dashboard {
	d := &Dashboard{client: client, deps: deps.withDefaults("dashboard")}
	d.metrics = LocalMetrics(d.deps.Store.Records())
	d.origin = OriginLocal
	return d
}

// BeginMetrics returns the ticket of a metrics fetch
func (d *Dashboard) BeginMetrics() Ticket {
	return d.seq.Next()
}

// FetchMetrics calls the server without touching view state
func (d *Dashboard) FetchMetrics(ctx context.Context) api.Result[api.Metrics] {
	return d.client.Metrics(ctx)
}

// CompleteMetrics applies the fetch issued with ticket. A failure falls back
// to metrics computed from the local store.
func (d *Dashboard) CompleteMetrics(ticket Ticket, res api.Result[api.Metrics]) bool {
	if !d.seq.IsCurrent(ticket) {
		return false
	}

	metrics, origin := res.Data, OriginServer
	if !res.Success {
		d.deps.Logger.WarnWithFields("server metrics unavailable, using local history", []logger.Field{
			logger.F("kind", res.Kind),
			logger.F("message", res.Message),
		})
		metrics, origin = LocalMetrics(d.deps.Store.Records()), OriginLocal
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.metrics = metrics
	d.origin = origin
	return true
}

// LoadMetrics refreshes the metric cards
func (d *Dashboard) LoadMetrics(ctx context.Context) (api.Metrics, Origin) {
	ticket := d.BeginMetrics()
	d.CompleteMetrics(ticket, d.FetchMetrics(ctx))
	return d.Metrics()
}

// Metrics returns the current metric cards and where they came from
func (d *Dashboard) Metrics() (api.Metrics, Origin) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics, d.origin
}

// Recent returns the newest reviews for the dashboard list
func (d *Dashboard) Recent() []common.Record {
	return d.deps.Store.Recent(RecentCount)
}

// LocalMetrics computes server-shaped metrics from records
func LocalMetrics(records []common.Record) api.Metrics {
	agg := insights.Summarize(records, insights.DefaultGranularity)
	m := api.Metrics{
		TotalReviews:    agg.Total,
		PositivePercent: round1(agg.PositivePercent),
		NegativePercent: round1(agg.NegativePercent),
		Sentiments:      api.SentimentCounts{Positive: agg.Positive, Negative: agg.Negative},
		Categories:      make(map[string]int, len(agg.Categories)),
	}
	for _, c := range agg.Categories {
		m.Categories[c.Label] = c.Count
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
