package tests

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/cache"
	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/monitor"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/stubserver"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// stack is the dashboard object graph wired to a stub server
type stack struct {
	stub   *stubserver.Server
	client *api.Client
	deps   viewmodel.Deps
	shown  []notify.Notification
}

func newStack(t *testing.T, seed bool) *stack {
	t.Helper()
	stub := stubserver.New(stubserver.Config{Seed: seed})
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	client, err := api.New(api.Options{BaseURL: ts.URL, Timeout: 5 * time.Second, RateLimit: 100, Burst: 10})
	require.NoError(t, err)

	s := &stack{stub: stub, client: client}
	n := notify.New()
	n.Subscribe(func(note notify.Notification) { s.shown = append(s.shown, note) })
	s.deps = viewmodel.Deps{Store: history.New(history.DefaultCapacity), Notifier: n}
	return s
}

func (s *stack) messages() []string {
	out := make([]string, 0, len(s.shown))
	for _, n := range s.shown {
		out = append(out, n.Message)
	}
	return out
}

func TestAnalyzeFlowsIntoHistoryAndInsights(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()

	analysis := viewmodel.NewAnalysis(s.client, s.deps)
	insightsVM := viewmodel.NewInsights(s.client, s.deps)

	for i, sample := range viewmodel.SampleReviews() {
		require.NoError(t, analysis.UseSample(i))
		require.NoError(t, analysis.Submit(ctx), sample.Text)
	}

	reviews := len(viewmodel.SampleReviews())
	assert.Equal(t, reviews, s.deps.Store.Len())
	assert.Equal(t, reviews, s.stub.Len())

	agg := insightsVM.Refresh()
	assert.Equal(t, reviews, agg.Total)
	assert.Equal(t, agg.Total, agg.Positive+agg.Negative)

	sink := &chart.Recorder{}
	chart.Render(sink, agg)
	assert.Equal(t, agg.Positive, sink.Sentiment.Positive)

	// the server sees the same reviews
	h := viewmodel.NewHistory(s.client, s.deps)
	outcome := h.Load(ctx)
	require.NoError(t, outcome.Err)
	assert.Equal(t, history.SourceRemote, outcome.Source)
	assert.Equal(t, reviews, s.deps.Store.Len())
	assert.Equal(t, viewmodel.SampleReviews()[reviews-1].Text, s.deps.Store.Records()[0].Text, "newest first")
}

func TestHistoryMutationsReachServer(t *testing.T) {
	s := newStack(t, true)
	ctx := context.Background()

	h := viewmodel.NewHistory(s.client, s.deps, viewmodel.WithPageSize(2))
	require.NoError(t, h.Load(ctx).Err)
	total := s.stub.Len()
	require.Equal(t, total, s.deps.Store.Len())
	assert.Equal(t, (total+1)/2, h.Page().TotalPages)

	target := h.Page().Items[0].ID
	require.NoError(t, h.Delete(ctx, target))
	assert.Equal(t, total-1, s.stub.Len())
	_, ok := s.deps.Store.Get(target)
	assert.False(t, ok)

	assert.Error(t, h.Delete(ctx, "does-not-exist"))
	assert.Contains(t, s.messages(), viewmodel.MsgDeleteFailed)

	var buf bytes.Buffer
	require.NoError(t, h.Export(&buf))
	assert.Equal(t, total, strings.Count(buf.String(), "\n"), "header plus remaining rows")

	require.NoError(t, h.Clear(ctx))
	assert.Equal(t, 0, s.stub.Len())
	assert.Equal(t, 0, s.deps.Store.Len())
	assert.Contains(t, s.messages(), viewmodel.MsgHistoryCleared)
}

func TestEmptyServerShowsSamples(t *testing.T) {
	s := newStack(t, false)

	h := viewmodel.NewHistory(s.client, s.deps)
	outcome := h.Load(context.Background())

	assert.NoError(t, outcome.Err)
	assert.Equal(t, history.SourceSample, outcome.Source)
	assert.Equal(t, len(history.SampleRecords(time.Now())), s.deps.Store.Len())
}

func TestDashboardMetricsAndRequestStats(t *testing.T) {
	s := newStack(t, true)
	ctx := context.Background()

	dash := viewmodel.NewDashboard(s.client, s.deps)
	metrics, origin := dash.LoadMetrics(ctx)
	assert.Equal(t, viewmodel.OriginServer, origin)
	assert.Equal(t, s.stub.Len(), metrics.TotalReviews)
	assert.Equal(t, metrics.TotalReviews, metrics.Sentiments.Positive+metrics.Sentiments.Negative)

	res := s.client.ModelInfo(ctx)
	require.True(t, res.Success, res.Message)

	stats := s.client.Registry().Endpoint(monitor.EndpointServerMetrics)
	assert.EqualValues(t, 1, stats.Count)
	assert.EqualValues(t, 0, stats.ErrorCount)
}

func TestRemoteInsightsAndReport(t *testing.T) {
	s := newStack(t, true)
	ctx := context.Background()

	h := viewmodel.NewHistory(s.client, s.deps)
	require.NoError(t, h.Load(ctx).Err)

	vm := viewmodel.NewInsights(s.client, s.deps)
	vm.SetFilters(viewmodel.InsightsFilters{Granularity: "day"})
	agg := vm.Apply()
	require.NoError(t, vm.LoadRemote(ctx))
	remote, ok := vm.Remote()
	require.True(t, ok)
	assert.Equal(t, len(remote.Trend.Positive), len(remote.Trend.Labels))
	assert.Contains(t, s.messages(), viewmodel.MsgFiltersApplied)

	f, err := formatter.New("markdown", formatter.Options{})
	require.NoError(t, err)
	out, err := f.Format(&formatter.Report{
		Title: "Insights",
		Insights: &formatter.InsightsSection{
			Aggregate:   agg,
			Direction:   vm.Direction(),
			Granularity: "day",
			Remote:      &remote,
		},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Insights")
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	s := newStack(t, true)
	ctx := context.Background()

	snap, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = snap.Close() }()

	loader := history.NewLoader(s.client, s.deps.Store, history.WithSnapshot(snap))
	require.NoError(t, loader.Load(ctx).Err)

	records, _, err := snap.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, s.deps.Store.Len())
	for i, r := range s.deps.Store.Records() {
		assert.Equal(t, r.ID, records[i].ID)
		assert.Equal(t, r.Sentiment, records[i].Sentiment)
	}
}

func TestStaleAnalysisIsDiscarded(t *testing.T) {
	s := newStack(t, false)
	ctx := context.Background()
	vm := viewmodel.NewAnalysis(s.client, s.deps)

	vm.SetText("Great product")
	ticket, req, err := vm.Begin()
	require.NoError(t, err)
	res := vm.Run(ctx, req)
	require.True(t, res.Success)

	vm.Cancel()
	assert.False(t, vm.Complete(ticket, res))
	assert.Equal(t, 0, s.deps.Store.Len())
	assert.Equal(t, viewmodel.StateIdle, vm.State())

	_, ok := vm.Result()
	assert.False(t, ok)
	assert.Equal(t, common.SentimentPositive, res.Data.Sentiment)
}
