package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type fakeBackend struct {
	mu      sync.Mutex
	records []common.Record
	deleted []common.ID
	cleared int
}

func (f *fakeBackend) Analyze(_ context.Context, req common.Request) api.Result[api.AnalysisResponse] {
	return api.Result[api.AnalysisResponse]{Success: true, Data: api.AnalysisResponse{
		Sentiment:  common.SentimentPositive,
		Confidence: 0.92,
		Text:       req.Text,
		Category:   req.Category,
		Rating:     req.Rating,
		Timestamp:  time.Now(),
	}}
}

func (f *fakeBackend) History(context.Context) api.Result[[]common.Record] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return api.Result[[]common.Record]{Success: true, Data: append([]common.Record(nil), f.records...)}
}

func (f *fakeBackend) DeleteReview(_ context.Context, id common.ID) api.Result[api.Ack] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return api.Result[api.Ack]{Success: true}
}

func (f *fakeBackend) ClearHistory(context.Context) api.Result[api.Ack] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return api.Result[api.Ack]{Success: true}
}

func (f *fakeBackend) Metrics(context.Context) api.Result[api.Metrics] {
	return api.Result[api.Metrics]{Kind: api.KindTransport, Message: "connection refused"}
}

func (f *fakeBackend) Insights(context.Context) api.Result[api.RemoteInsights] {
	return api.Result[api.RemoteInsights]{Success: true, Data: api.RemoteInsights{
		Trend: api.Series{Labels: []string{"Jan", "Feb"}, Positive: []float64{60, 70}, Negative: []float64{40, 30}},
	}}
}

func (f *fakeBackend) ModelInfo(context.Context) api.Result[api.ModelInfo] {
	return api.Result[api.ModelInfo]{Success: true, Data: api.ModelInfo{"model_type": "LogisticRegression", "version": "1.0"}}
}

type testApp struct {
	*App
	backend *fakeBackend
	shown   []string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := &fakeBackend{records: []common.Record{
		{ID: "a", Text: "Love it", Category: "Electronics", Rating: 5, Sentiment: common.SentimentPositive, Confidence: 0.9, Timestamp: time.Now().Add(-time.Hour)},
		{ID: "b", Text: "Broke fast", Category: "Books", Rating: 1, Sentiment: common.SentimentNegative, Confidence: 0.8, Timestamp: time.Now().Add(-2 * time.Hour)},
	}}

	ta := &testApp{backend: backend}
	notifier := notify.New()
	notifier.Subscribe(func(n notify.Notification) { ta.shown = append(ta.shown, n.Message) })

	ta.App = NewApp(context.Background(), Options{
		Backend:  backend,
		Notifier: notifier,
		Emoji:    emoji.New(true),
		Theme:    DefaultTheme,
	})
	ta.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return ta
}

// run executes cmd and feeds its message back, like the program loop
func (ta *testApp) run(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := ta.Update(cmd())
	return next
}

func (ta *testApp) press(k string) tea.Cmd {
	_, cmd := ta.Update(keyMsg(k))
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestApp_ViewBeforeResize(t *testing.T) {
	app := NewApp(context.Background(), Options{Backend: &fakeBackend{}})
	assert.Equal(t, "Initializing SentiDash...", app.View())
}

func TestApp_Navigation(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, ViewDashboard, ta.view)
	assert.Contains(t, ta.View(), "SentiDash")

	ta.press("tab")
	assert.Equal(t, ViewAnalyze, ta.view)

	ta.press("shift+tab")
	ta.press("shift+tab")
	assert.Equal(t, ViewHelp, ta.view)
	assert.Contains(t, ta.View(), "Global")

	ta.press("4")
	assert.Equal(t, ViewInsights, ta.view)

	ta.press("?")
	assert.Equal(t, ViewHelp, ta.view)
}

func TestApp_DashboardFallsBackToLocalMetrics(t *testing.T) {
	ta := newTestApp(t)
	ta.run(ta.loadHistory())
	ta.run(ta.loadMetrics())

	_, origin := ta.dash.Metrics()
	assert.Equal(t, viewmodel.OriginLocal, origin)
	assert.Contains(t, ta.View(), "computed locally")
}

func TestApp_AnalyzeSample(t *testing.T) {
	ta := newTestApp(t)
	ta.press("2")

	ta.press("s")
	sample := viewmodel.SampleReviews()[0]
	assert.Equal(t, sample.Text, ta.input.Value())

	cmd := ta.press("ctrl+s")
	require.NotNil(t, cmd)
	assert.Equal(t, viewmodel.StateAnalyzing, ta.analysis.State())
	assert.Contains(t, ta.View(), "Analyzing")

	next := ta.run(cmd)
	assert.NotNil(t, next, "expected a metrics reload")
	assert.Equal(t, viewmodel.StateIdle, ta.analysis.State())
	assert.Equal(t, 1, ta.store.Len())
	assert.Contains(t, ta.shown, viewmodel.MsgAnalysisComplete)
	assert.Equal(t, 1, ta.insights.Aggregate().Total)
}

func TestApp_AnalysisSurvivesInitialHistoryLoad(t *testing.T) {
	ta := newTestApp(t)
	load := ta.loadHistory()

	ta.press("2")
	ta.press("s")
	ta.run(ta.press("ctrl+s"))
	require.Equal(t, 1, ta.store.Len())

	ta.run(load)

	records := ta.store.Records()
	require.Len(t, records, 3)
	assert.Equal(t, viewmodel.SampleReviews()[0].Text, records[0].Text)
	assert.Equal(t, history.SourceRemote, ta.history.Source())
}

func TestApp_EditingCapturesKeys(t *testing.T) {
	ta := newTestApp(t)
	ta.press("2")
	ta.press("i")
	require.True(t, ta.editing)

	ta.press("q")
	assert.False(t, ta.quitting)
	assert.Equal(t, "q", ta.analysis.Form().Text)

	ta.press("esc")
	assert.False(t, ta.editing)
}

func TestApp_BlankAnalysisIsRejected(t *testing.T) {
	ta := newTestApp(t)
	ta.press("2")

	assert.Nil(t, ta.press("ctrl+s"))
	assert.Contains(t, ta.shown, viewmodel.MsgEmptyReview)
	assert.Equal(t, 0, ta.store.Len())
}

func TestApp_HistoryDeleteAndClear(t *testing.T) {
	ta := newTestApp(t)
	ta.run(ta.loadHistory())
	require.Equal(t, 2, ta.store.Len())
	assert.Equal(t, history.SourceRemote, ta.history.Source())

	ta.press("3")
	assert.Contains(t, ta.View(), "Love it")

	ta.press("j")
	ta.run(ta.press("d"))
	assert.Equal(t, []common.ID{"b"}, ta.backend.deleted)
	assert.Equal(t, 1, ta.store.Len())
	assert.Contains(t, ta.shown, viewmodel.MsgReviewDeleted)
	assert.Equal(t, 0, ta.selected)

	assert.Nil(t, ta.press("C"))
	assert.True(t, ta.confirmClear)
	ta.run(ta.press("C"))
	assert.Equal(t, 1, ta.backend.cleared)
	assert.Equal(t, 0, ta.store.Len())
	assert.Contains(t, ta.View(), "No items")
}

func TestApp_StaleHistoryIsDropped(t *testing.T) {
	ta := newTestApp(t)
	first := ta.loadHistory()
	second := ta.loadHistory()

	ta.run(first)
	assert.Equal(t, 0, ta.store.Len())

	ta.run(second)
	assert.Equal(t, 2, ta.store.Len())
}

func TestApp_InsightsFiltersApplyOnEnter(t *testing.T) {
	ta := newTestApp(t)
	ta.run(ta.loadHistory())
	ta.press("4")

	ta.press("c")
	assert.Equal(t, common.Categories[0], ta.insights.Filters().Category)
	assert.Equal(t, 2, ta.insights.Aggregate().Total)
	assert.Empty(t, ta.shown)

	ta.press("enter")
	assert.Contains(t, ta.shown, viewmodel.MsgFiltersApplied)
	assert.Equal(t, 1, ta.insights.Aggregate().Total)

	ta.run(ta.press("R"))
	_, ok := ta.insights.Remote()
	assert.True(t, ok)
	assert.Contains(t, ta.insightsContent(), "Server Trend")
}

func TestApp_ModelInfo(t *testing.T) {
	ta := newTestApp(t)
	ta.run(ta.loadModel())
	ta.press("5")

	view := ta.View()
	assert.Contains(t, view, "model_type")
	assert.Contains(t, view, "LogisticRegression")
}

func TestApp_Quit(t *testing.T) {
	ta := newTestApp(t)
	cmd := ta.press("q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, ta.quitting)
	assert.Empty(t, ta.View())
}

func TestNextHelpers(t *testing.T) {
	assert.Equal(t, "b", nextString([]string{"a", "b"}, "a"))
	assert.Equal(t, "a", nextString([]string{"a", "b"}, "b"))
	assert.Equal(t, "a", nextString([]string{"a", "b"}, "zzz"))
	assert.Equal(t, 30, nextInt(dayChoices, 7))
	assert.Equal(t, common.SentimentPositive, nextSentiment(""))
	assert.Equal(t, common.Sentiment(""), nextSentiment(common.SentimentNegative))
}
