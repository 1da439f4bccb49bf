package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/ui/components"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// View renders the dashboard
func (a *App) View() string {
	if !a.ready {
		return "Initializing SentiDash..."
	}
	if a.quitting {
		return ""
	}

	var body string
	switch a.view {
	case ViewDashboard:
		body = a.renderDashboard()
	case ViewAnalyze:
		body = a.renderAnalyze()
	case ViewHistory:
		body = a.renderHistory()
	case ViewInsights:
		body = a.renderInsights()
	case ViewModel:
		body = a.renderModel()
	case ViewHelp:
		body = a.renderHelp()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), "", body)

	toasts := components.Toasts{Width: 44, Icons: a.icons, Palette: a.palette}.Render(a.notifier.Active())
	if toasts != "" {
		screen = lipgloss.JoinVertical(lipgloss.Left, screen, "", lipgloss.PlaceHorizontal(a.width, lipgloss.Right, toasts))
	}

	return lipgloss.JoinVertical(lipgloss.Left, screen, a.renderStatus())
}

func (a *App) style(s lipgloss.Style) lipgloss.Style {
	if a.palette.Plain {
		return lipgloss.NewStyle()
	}
	return s
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf(" %d %s ", i+1, v)
		if v == a.view {
			tabs = append(tabs, a.style(a.styles.Selected).Render("["+strings.TrimSpace(label)+"]"))
		} else {
			tabs = append(tabs, a.style(a.styles.Muted).Render(label))
		}
	}
	title := a.style(a.styles.Title).Render(a.icons.Get("statistics") + " SentiDash")
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, "  "}, tabs...)...)
}

func (a *App) renderStatus() string {
	var parts []string
	if a.analysis.State() == viewmodel.StateAnalyzing {
		parts = append(parts, a.spinner.View()+" Analyzing...")
	}
	if a.history.Loading() {
		parts = append(parts, a.spinner.View()+" Loading history...")
	}
	if a.busy {
		parts = append(parts, a.spinner.View()+" Working...")
	}
	parts = append(parts, fmt.Sprintf("%d reviews", a.store.Len()), "tab: next view", "?: help", "q: quit")
	return a.style(a.styles.Muted).Render(strings.Join(parts, " • "))
}

// renderDashboard shows the metric cards, the server charts and recent reviews
func (a *App) renderDashboard() string {
	metrics, origin := a.dash.Metrics()

	originText := "from server"
	if origin == viewmodel.OriginLocal {
		originText = "computed locally"
	}

	panel := components.NewChartPanel(a.width, a.palette)
	sentiment, categories := chart.FromMetrics(metrics)
	panel.DrawSentiment(sentiment)
	panel.DrawCategories(categories)

	recent := components.NewReviewList(
		a.icons.Get("history")+" Recent Analyses",
		a.dash.Recent(),
		max(a.width-2, 40), viewmodel.RecentCount+5,
		a.icons, a.opts.TimeLayout, a.palette,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		components.NewMetricCards(metrics, a.icons, a.palette).Render(),
		a.style(a.styles.Muted).Render("Metrics "+originText),
		panel.View(),
		recent.Render(),
	)
}

// renderAnalyze shows the form and the last result
func (a *App) renderAnalyze() string {
	form := a.analysis.Form()

	header := a.style(a.styles.Header).Render(a.icons.Get("target") + " Analyze a Review")

	inputBox := a.style(a.styles.Panel).Render(a.input.View())
	if a.editing {
		inputBox = a.style(a.styles.Focused).Render(a.input.View())
	}

	fields := []string{
		fmt.Sprintf("%s Category: %s", a.icons.Get("category"), form.Category),
		fmt.Sprintf("%s Rating:   %s", a.icons.Get("rating"), common.StarRating(form.Rating)),
	}

	state := a.analysis.State().String()
	if a.analysis.State() == viewmodel.StateAnalyzing {
		state = a.spinner.View() + " " + state
	}

	hint := "i: edit • ctrl+s: analyze • s: sample • c: category • +/-: rating"
	if a.editing {
		hint = "esc: stop editing • ctrl+s: analyze"
	}

	parts := []string{
		header,
		inputBox,
		a.style(a.styles.Body).Render(strings.Join(fields, "\n")),
		a.style(a.styles.Info).Render("State: " + state),
		a.style(a.styles.Muted).Render(hint),
	}

	if result, ok := a.analysis.Result(); ok {
		detail := components.NewReviewDetail(result.Record, min(max(a.width-2, 40), 90), a.icons, viewmodel.ResultTimeLayout, a.palette)
		parts = append(parts, "", detail.Render())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHistory shows the summary, one page of reviews and the selection
func (a *App) renderHistory() string {
	page := a.history.Page()
	summary := a.history.Summary()
	criteria := a.history.Criteria()

	sentiment := "all"
	if criteria.Sentiment != "" {
		sentiment = string(criteria.Sentiment)
	}
	category := criteria.Category
	if category == "" {
		category = "all"
	}

	header := a.style(a.styles.Header).Render(a.icons.Get("history") + " Review History")
	stats := a.style(a.styles.Body).Render(fmt.Sprintf(
		"Total %d • Positive %d • Negative %d • Avg confidence %d%% • Source %s",
		summary.Total, summary.Positive, summary.Negative, summary.AvgConfidence, sourceText(a.history.Source())))
	filters := a.style(a.styles.Muted).Render(fmt.Sprintf("Sentiment: %s • Category: %s", sentiment, category))

	list := components.NewReviewList(
		fmt.Sprintf("Page %d of %d", page.Number, max(page.TotalPages, 1)),
		page.Items, max(a.width-2, 40), page.Size+5, a.icons, a.opts.TimeLayout, a.palette)
	list.Selected = min(a.selected, max(len(page.Items)-1, 0))
	list.SetFocused(true)
	list.Footer = "↑↓ select • ←→ page • f sentiment • c category • d delete • C clear • x export"
	if a.confirmClear {
		list.Footer = "Press C again to clear all reviews"
	}

	parts := []string{header, stats, filters, list.Render()}
	if item := list.GetSelectedItem(); item != nil {
		if r, ok := item.Data.(common.Record); ok {
			parts = append(parts, components.NewReviewDetail(r, min(max(a.width-2, 40), 90), a.icons, a.opts.TimeLayout, a.palette).Render())
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sourceText(s history.Source) string {
	if s == "" {
		return "-"
	}
	return string(s)
}

// renderInsights shows the filters and the scrollable charts
func (a *App) renderInsights() string {
	f := a.insights.Filters()
	category := f.Category
	if category == "" {
		category = "all"
	}
	days := "all time"
	if f.Days > 0 {
		days = fmt.Sprintf("%d days", f.Days)
	}
	rating := "all"
	if f.Rating > 0 {
		rating = common.StarRating(f.Rating)
	}

	header := a.style(a.styles.Header).Render(a.icons.Get("insight") + " Insights")
	filters := a.style(a.styles.Body).Render(fmt.Sprintf(
		"Category: %s • Range: %s • Rating: %s • Buckets: %s   (c/t/s/g change, enter apply, R server)",
		category, days, rating, f.Granularity))

	return lipgloss.JoinVertical(lipgloss.Left, header, filters, a.viewport.View())
}

// refreshViewport redraws the insights charts into the viewport
func (a *App) refreshViewport() {
	a.viewport.SetContent(a.insightsContent())
}

func (a *App) insightsContent() string {
	agg := a.insights.Aggregate()
	dir := a.insights.Direction()

	summary := fmt.Sprintf("%d reviews • %.1f%% positive • avg confidence %.1f%% • trend %s",
		agg.Total, agg.PositivePercent, agg.AvgConfidence, dir.Type)

	panel := components.NewChartPanel(max(a.width-4, 60), a.palette)
	a.insights.Render(panel)

	parts := []string{a.style(a.styles.Insight).Render(summary), panel.View()}

	if remote, ok := a.insights.Remote(); ok {
		server := components.NewTrendChart(a.icons.Get("server")+" Server Trend", chart.FromRemote(remote), max(a.width-4, 60), 14, a.palette)
		parts = append(parts, server.Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderModel shows model metadata sorted by key
func (a *App) renderModel() string {
	header := a.style(a.styles.Header).Render(a.icons.Get("model") + " Model")

	box := components.NewSummaryBox("Model Information", min(max(a.width-2, 40), 80), a.palette)
	switch {
	case a.modelErr != "":
		box.AddLine(a.icons.Get("error") + " " + a.modelErr)
	case len(a.model) == 0:
		box.AddLine("Loading...")
	default:
		keys := make([]string, 0, len(a.model))
		for k := range a.model {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			box.AddKeyValue(k, fmt.Sprint(a.model[k]))
		}
	}
	box.AddLine("")
	box.AddLine("r: reload")

	return lipgloss.JoinVertical(lipgloss.Left, header, box.Render())
}

// renderHelp lists the key bindings
func (a *App) renderHelp() string {
	lines := []string{a.style(a.styles.Header).Render(a.icons.Get("help") + " Help"), ""}
	for _, group := range a.keys.helpGroups() {
		lines = append(lines, a.style(a.styles.Subheader).Render(group.title))
		for _, b := range group.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	return a.style(a.styles.Box).Render(strings.Join(lines, "\n"))
}
