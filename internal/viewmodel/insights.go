package viewmodel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/insights"
)

// Notification texts of the insights page
const (
	MsgFiltersApplied       = "Filters applied successfully"
	MsgInsightsUnavailable  = "Failed to load insights"
	msgInsightsLoadFailPref = "Error loading insights: "
)

// InsightsSource is the part of the API client the insights page needs
type InsightsSource interface {
	Insights(ctx context.Context) api.Result[api.RemoteInsights]
}

// InsightsFilters are the selections of the insights page
type InsightsFilters struct {
	insights.Filter
	Granularity insights.Granularity
}

// DefaultInsightsFilters returns the preselection: every category and
// rating over the last 30 days, bucketed by month.
func DefaultInsightsFilters() InsightsFilters {
	return InsightsFilters{
		Filter:      insights.Filter{Days: insights.DefaultDays},
		Granularity: insights.DefaultGranularity,
	}
}

// ParseChoice reads a numeric selector value where "all" or "" mean 0
func ParseChoice(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid choice %q: want a non-negative number or \"all\"", s)
	}
	return n, nil
}

// Insights recomputes the aggregate over the shared store whenever the
// filters are applied, and separately shows the server's own insights.
type Insights struct {
	mu      sync.Mutex
	client  InsightsSource
	deps    Deps
	seq     Sequencer
	filters InsightsFilters
	agg     insights.Aggregate
	remote  *api.RemoteInsights
}

// NewInsights creates the insights view-model with default filters
func NewInsights(client InsightsSource, deps Deps) *Insights {
	v := &Insights{
		client:  client,
		deps:    deps.withDefaults("insights"),
		filters: DefaultInsightsFilters(),
	}
	v.agg = v.Compute()
	return v
}

// Filters returns the current selections
func (v *Insights) Filters() InsightsFilters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// SetFilters replaces the selections without applying them
func (v *Insights) SetFilters(f InsightsFilters) {
	if f.Granularity == "" {
		f.Granularity = insights.DefaultGranularity
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = f
}

// Compute aggregates the store under the current selections. It changes
// nothing and shows nothing.
func (v *Insights) Compute() insights.Aggregate {
	f := v.Filters()
	return insights.Compute(v.deps.Store.Records(), f.Filter, f.Granularity, v.deps.Now())
}

// Apply recomputes the aggregate and confirms with a notification
func (v *Insights) Apply() insights.Aggregate {
	agg := v.Compute()
	v.mu.Lock()
	v.agg = agg
	v.mu.Unlock()

	v.deps.Notifier.Success(MsgFiltersApplied)
	return agg
}

// Refresh recomputes the aggregate silently, e.g. after the store changed
func (v *Insights) Refresh() insights.Aggregate {
	agg := v.Compute()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.agg = agg
	return agg
}

// Aggregate returns the last computed aggregate
func (v *Insights) Aggregate() insights.Aggregate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.agg
}

// Direction reports where the sentiment trend is heading
func (v *Insights) Direction() insights.Direction {
	return insights.DetectDirection(v.Aggregate().Trend)
}

// Render draws the last aggregate on b
func (v *Insights) Render(b chart.Bridge) {
	chart.Render(b, v.Aggregate())
}

// BeginRemote returns the ticket of a server insights fetch
func (v *Insights) BeginRemote() Ticket {
	return v.seq.Next()
}

// FetchRemote calls the server without touching view state
func (v *Insights) FetchRemote(ctx context.Context) api.Result[api.RemoteInsights] {
	return v.client.Insights(ctx)
}

// CompleteRemote applies the outcome of the fetch issued with ticket
func (v *Insights) CompleteRemote(ticket Ticket, res api.Result[api.RemoteInsights]) bool {
	if !v.seq.IsCurrent(ticket) {
		v.deps.Logger.Debug("discarding stale insights load %d", ticket)
		return false
	}

	switch {
	case res.Success:
		data := res.Data
		v.mu.Lock()
		v.remote = &data
		v.mu.Unlock()
	case res.Kind == api.KindApplication:
		v.deps.Notifier.Error(MsgInsightsUnavailable)
	default:
		v.deps.Notifier.Error(msgInsightsLoadFailPref + res.Message)
	}
	return true
}

// LoadRemote fetches the server insights
func (v *Insights) LoadRemote(ctx context.Context) error {
	ticket := v.BeginRemote()
	res := v.FetchRemote(ctx)
	v.CompleteRemote(ticket, res)
	return res.Err()
}

// Remote returns the last server insights, if any were loaded
func (v *Insights) Remote() (api.RemoteInsights, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.remote == nil {
		return api.RemoteInsights{}, false
	}
	return *v.remote, true
}
