package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/ui/components"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// Filter choices cycled by the insights view; 0 means all
var (
	dayChoices    = []int{7, insights.DefaultDays, 90, 365, 0}
	bucketChoices = []insights.Granularity{insights.GranularityDay, insights.GranularityWeek, insights.GranularityMonth}
	sentimentList = []common.Sentiment{"", common.SentimentPositive, common.SentimentNegative}
)

// App is the interactive dashboard
type App struct {
	ctx     context.Context
	backend Backend
	opts    Options
	logger  *logger.Logger

	store    *history.Store
	notifier *notify.Service
	analysis *viewmodel.Analysis
	history  *viewmodel.History
	insights *viewmodel.Insights
	dash     *viewmodel.Dashboard

	width    int
	height   int
	ready    bool
	quitting bool

	view     View
	keys     keyMap
	styles   *Styles
	palette  components.Palette
	icons    emoji.Set
	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model

	// editing is true while the analyze textarea has focus
	editing      bool
	sample       int
	selected     int
	confirmClear bool
	busy         bool
	model        api.ModelInfo
	modelErr     string
}

// NewApp wires the view-models around the shared store and notifier
func NewApp(ctx context.Context, opts Options) *App {
	if opts.Store == nil {
		opts.Store = history.New(history.DefaultCapacity)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New()
	}
	if opts.Theme.Name == "" {
		opts.Theme = DefaultTheme
	}
	if opts.Filters.Granularity == "" {
		opts.Filters = viewmodel.DefaultInsightsFilters()
	}
	if opts.ExportPath == "" {
		opts.ExportPath = history.DefaultExportName
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = "Jan 2 15:04"
	}

	deps := viewmodel.Deps{Store: opts.Store, Notifier: opts.Notifier, Logger: opts.Logger}

	var historyOpts []viewmodel.HistoryOption
	if opts.PageSize > 0 {
		historyOpts = append(historyOpts, viewmodel.WithPageSize(opts.PageSize))
	}
	if opts.Loader != nil {
		historyOpts = append(historyOpts, viewmodel.WithLoader(opts.Loader))
	}

	ins := viewmodel.NewInsights(opts.Backend, deps)
	ins.SetFilters(opts.Filters)
	ins.Refresh()

	input := textarea.New()
	input.Placeholder = "Type or paste a product review..."
	input.ShowLineNumbers = false
	input.CharLimit = 5000
	input.SetWidth(60)
	input.SetHeight(5)

	s := spinner.New()
	s.Spinner = spinner.Dot

	a := &App{
		ctx:      ctx,
		backend:  opts.Backend,
		opts:     opts,
		logger:   opts.Logger.WithComponent("ui"),
		store:    opts.Store,
		notifier: opts.Notifier,
		analysis: viewmodel.NewAnalysis(opts.Backend, deps),
		history:  viewmodel.NewHistory(opts.Backend, deps, historyOpts...),
		insights: ins,
		dash:     viewmodel.NewDashboard(opts.Backend, deps),
		view:     ViewDashboard,
		keys:     defaultKeys(),
		styles:   NewStyles(opts.Theme),
		palette:  opts.Theme.Palette(!opts.Color),
		icons:    opts.Emoji,
		input:    input,
		spinner:  s,
		viewport: viewport.New(80, 20),
	}
	a.input.SetValue(a.analysis.Form().Text)
	return a
}

// Init loads history, metrics and model info
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.loadHistory(),
		a.loadMetrics(),
		a.loadModel(),
		toastTick(),
	)
}

// Update handles messages and navigation
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowResize(msg)
	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case toastTickMsg:
		return a, toastTick()
	case analysisDoneMsg:
		return a.handleAnalysisDone(msg)
	case historyLoadedMsg:
		return a.handleHistoryLoaded(msg)
	case metricsMsg:
		a.dash.CompleteMetrics(msg.ticket, msg.res)
		return a, nil
	case remoteInsightsMsg:
		a.insights.CompleteRemote(msg.ticket, msg.res)
		a.refreshViewport()
		return a, nil
	case modelInfoMsg:
		return a.handleModelInfo(msg)
	case actionDoneMsg:
		return a.handleActionDone(msg)
	}

	if a.editing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleWindowResize handles window resize events
func (a *App) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.ready = true
	a.input.SetWidth(max(a.width-10, 20))
	a.viewport.Width = max(a.width-4, 20)
	a.viewport.Height = max(a.height-8, 5)
	a.refreshViewport()
	return a, nil
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		return a.handleEditingKey(msg)
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, a.keys.Next):
		a.switchView(a.offsetView(1))
		return a, nil
	case key.Matches(msg, a.keys.Prev):
		a.switchView(a.offsetView(-1))
		return a, nil
	case key.Matches(msg, a.keys.Jump):
		a.switchView(views[int(msg.String()[0]-'1')])
		return a, nil
	case key.Matches(msg, a.keys.Help):
		a.switchView(ViewHelp)
		return a, nil
	}

	switch a.view {
	case ViewDashboard:
		if key.Matches(msg, a.keys.Refresh) {
			return a, tea.Batch(a.loadHistory(), a.loadMetrics())
		}
	case ViewAnalyze:
		return a.handleAnalyzeKey(msg)
	case ViewHistory:
		return a.handleHistoryKey(msg)
	case ViewInsights:
		return a.handleInsightsKey(msg)
	case ViewModel:
		if key.Matches(msg, a.keys.Refresh) {
			return a, a.loadModel()
		}
	}
	return a, nil
}

func (a *App) offsetView(delta int) View {
	i := int(a.view) + delta
	n := len(views)
	return views[((i%n)+n)%n]
}

func (a *App) switchView(v View) {
	a.view = v
	a.confirmClear = false
	a.viewport.GotoTop()
	a.refreshViewport()
}

// handleEditingKey routes keys to the textarea while it has focus
func (a *App) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, a.keys.Escape):
		a.editing = false
		a.input.Blur()
		return a, nil
	case key.Matches(msg, a.keys.Submit):
		a.editing = false
		a.input.Blur()
		return a, a.startAnalysis()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.analysis.SetText(a.input.Value())
	return a, cmd
}

func (a *App) handleAnalyzeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := a.analysis.Form()

	switch {
	case key.Matches(msg, a.keys.Escape):
		if a.analysis.State() == viewmodel.StateAnalyzing {
			a.analysis.Cancel()
			a.notifier.Info("Analysis cancelled")
		}
	case key.Matches(msg, a.keys.Edit):
		a.editing = true
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Submit):
		return a, a.startAnalysis()
	case key.Matches(msg, a.keys.Sample):
		if err := a.analysis.UseSample(a.sample); err == nil {
			a.input.SetValue(a.analysis.Form().Text)
		}
		a.sample = (a.sample + 1) % len(viewmodel.SampleReviews())
	case key.Matches(msg, a.keys.Category):
		a.analysis.SetCategory(nextString(common.Categories, form.Category))
	case key.Matches(msg, a.keys.RatingUp):
		a.analysis.SetRating(form.Rating + 1)
	case key.Matches(msg, a.keys.RatingDn):
		a.analysis.SetRating(form.Rating - 1)
	}
	return a, nil
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, a.keys.Clear) {
		a.confirmClear = false
	}
	page := a.history.Page()

	switch {
	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadHistory()
	case key.Matches(msg, a.keys.Up):
		a.selected = max(a.selected-1, 0)
	case key.Matches(msg, a.keys.Down):
		a.selected = min(a.selected+1, max(len(page.Items)-1, 0))
	case key.Matches(msg, a.keys.Left):
		a.history.PrevPage()
		a.selected = 0
	case key.Matches(msg, a.keys.Right):
		a.history.NextPage()
		a.selected = 0
	case key.Matches(msg, a.keys.Filter):
		criteria := a.history.Criteria()
		a.history.SetSentiment(nextSentiment(criteria.Sentiment))
		a.selected = 0
	case key.Matches(msg, a.keys.Category):
		criteria := a.history.Criteria()
		a.history.SetCategory(nextString(append([]string{""}, common.Categories...), criteria.Category))
		a.selected = 0
	case key.Matches(msg, a.keys.Delete):
		if a.selected < len(page.Items) && !a.busy {
			return a, a.deleteReview(page.Items[a.selected].ID)
		}
	case key.Matches(msg, a.keys.Clear):
		if !a.confirmClear {
			a.confirmClear = true
			a.notifier.Warning("Press C again to clear the whole history")
			return a, nil
		}
		a.confirmClear = false
		if !a.busy {
			return a, a.clearHistory()
		}
	case key.Matches(msg, a.keys.Export):
		return a, a.exportHistory()
	}
	return a, nil
}

func (a *App) handleInsightsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.insights.Filters()

	switch {
	case key.Matches(msg, a.keys.Category):
		f.Category = nextString(append([]string{""}, common.Categories...), f.Category)
	case key.Matches(msg, a.keys.Days):
		f.Days = nextInt(dayChoices, f.Days)
	case key.Matches(msg, a.keys.Stars):
		f.Rating = (f.Rating + 1) % (common.MaxRating + 1)
	case key.Matches(msg, a.keys.Bucket):
		f.Granularity = nextGranularity(f.Granularity)
	case key.Matches(msg, a.keys.Apply):
		a.insights.Apply()
		a.refreshViewport()
		return a, nil
	case key.Matches(msg, a.keys.Remote), key.Matches(msg, a.keys.Refresh):
		return a, a.loadRemoteInsights()
	default:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	// selections take effect on apply
	a.insights.SetFilters(f)
	return a, nil
}

// handleAnalysisDone applies a finished analysis and refreshes derived views
func (a *App) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if !a.analysis.Complete(msg.ticket, msg.res) {
		return a, nil
	}
	if !msg.res.Success {
		return a, nil
	}
	a.insights.Refresh()
	a.refreshViewport()
	return a, a.loadMetrics()
}

func (a *App) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if !a.history.CompleteLoad(msg.ticket, msg.outcome) {
		return a, nil
	}
	a.selected = 0
	a.insights.Refresh()
	a.refreshViewport()
	return a, nil
}

func (a *App) handleModelInfo(msg modelInfoMsg) (tea.Model, tea.Cmd) {
	if msg.res.Success {
		a.model = msg.res.Data
		a.modelErr = ""
	} else {
		a.modelErr = msg.res.Message
	}
	return a, nil
}

func (a *App) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		a.logger.Debug("action failed: %v", msg.err)
	}
	if n := len(a.history.Page().Items); a.selected >= n {
		a.selected = max(n-1, 0)
	}
	a.insights.Refresh()
	a.refreshViewport()
	return a, a.loadMetrics()
}

// requestContext bounds one server call
func (a *App) requestContext() (context.Context, context.CancelFunc) {
	if a.opts.RequestTimeout > 0 {
		return context.WithTimeout(a.ctx, a.opts.RequestTimeout)
	}
	return context.WithCancel(a.ctx)
}

// startAnalysis begins an analysis and returns the command that runs it
func (a *App) startAnalysis() tea.Cmd {
	a.analysis.SetText(a.input.Value())
	ticket, req, err := a.analysis.Begin()
	if err != nil {
		if errors.Is(err, viewmodel.ErrBusy) {
			a.notifier.Info("An analysis is already running")
		}
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return analysisDoneMsg{ticket: ticket, res: a.analysis.Run(ctx, req)}
	}
}

func (a *App) loadHistory() tea.Cmd {
	ticket := a.history.BeginLoad()
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return historyLoadedMsg{ticket: ticket, outcome: a.history.Fetch(ctx)}
	}
}

func (a *App) loadMetrics() tea.Cmd {
	ticket := a.dash.BeginMetrics()
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return metricsMsg{ticket: ticket, res: a.dash.FetchMetrics(ctx)}
	}
}

func (a *App) loadRemoteInsights() tea.Cmd {
	ticket := a.insights.BeginRemote()
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return remoteInsightsMsg{ticket: ticket, res: a.insights.FetchRemote(ctx)}
	}
}

func (a *App) loadModel() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return modelInfoMsg{res: a.backend.ModelInfo(ctx)}
	}
}

func (a *App) deleteReview(id common.ID) tea.Cmd {
	a.busy = true
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return actionDoneMsg{err: a.history.Delete(ctx, id)}
	}
}

func (a *App) clearHistory() tea.Cmd {
	a.busy = true
	return func() tea.Msg {
		ctx, cancel := a.requestContext()
		defer cancel()
		return actionDoneMsg{err: a.history.Clear(ctx)}
	}
}

func (a *App) exportHistory() tea.Cmd {
	path := a.opts.ExportPath
	return func() tea.Msg {
		err := writeExport(path, a.history)
		if err != nil {
			a.notifier.Error("Export failed: " + err.Error())
		} else {
			a.notifier.Success(fmt.Sprintf("Exported %d reviews to %s", len(a.history.Filtered()), path))
		}
		return actionDoneMsg{err: err}
	}
}

func writeExport(path string, h *viewmodel.History) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return h.Export(f)
}

// Run runs the dashboard until the user quits or ctx ends
func Run(ctx context.Context, opts Options) error {
	app := NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func nextString(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func nextInt(values []int, current int) int {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func nextSentiment(current common.Sentiment) common.Sentiment {
	for i, v := range sentimentList {
		if v == current {
			return sentimentList[(i+1)%len(sentimentList)]
		}
	}
	return ""
}

func nextGranularity(current insights.Granularity) insights.Granularity {
	for i, v := range bucketChoices {
		if v == current {
			return bucketChoices[(i+1)%len(bucketChoices)]
		}
	}
	return insights.DefaultGranularity
}

var _ tea.Model = (*App)(nil)
