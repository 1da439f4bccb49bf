package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts   *termfmt.TerminalOptions
	emoji  emoji.Set
	layout string
}

// NewTerminal creates a new terminal formatter
func NewTerminal(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji
	return &terminalFormatter{opts: opts, emoji: emoji.New(!o.Emoji), layout: o.timeLayout()}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	if report.Title != "" {
		f.writeHeader(&b, report.Title)
	}
	if report.Analysis != nil {
		f.writeAnalysis(&b, *report.Analysis)
	}
	if report.History != nil {
		f.writeHistory(&b, report.History)
	}
	if report.Insights != nil {
		f.writeInsights(&b, report.Insights)
	}
	if report.Metrics != nil {
		f.writeMetrics(&b, report.Metrics)
	}
	if len(report.Model) > 0 {
		f.writeModel(&b, report)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, title string) {
	line := strings.Repeat("─", len(title)+4)
	fmt.Fprintf(b, "┌%s┐\n│  %s  │\n└%s┘\n\n", line, title, line)
}

// writeAnalysis writes one classified review
func (f *terminalFormatter) writeAnalysis(b *strings.Builder, r common.Record) {
	b.WriteString(f.emoji.ForSentiment(string(r.Sentiment)) + " " + r.Sentiment.Label() + "\n")

	items := []termfmt.TreeItem{
		{Label: "Confidence", Value: termfmt.CreateConfidenceBar(r.Confidence, f.opts) + " " + common.ConfidencePercent(r.Confidence)},
		{Label: "Category", Value: r.Category},
		{Label: "Rating", Value: common.StarRating(r.Rating)},
		{Label: "Analyzed", Value: formatTime(r.Timestamp, f.layout)},
	}
	if r.ID != "" {
		items = append(items, termfmt.TreeItem{Label: "ID", Value: string(r.ID)})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	fmt.Fprintf(b, "\n  %q\n\n", r.Text)
}

// writeHistory writes the summary and one page of records
func (f *terminalFormatter) writeHistory(b *strings.Builder, h *HistorySection) {
	fmt.Fprintf(b, "%s History (%s)\n", f.emoji.Get("history"), describeCriteria(h.Criteria))

	summary := []termfmt.TreeItem{
		{Label: "Total", Value: formatNumber(h.Summary.Total)},
		{Label: "Positive", Value: formatNumber(h.Summary.Positive)},
		{Label: "Negative", Value: formatNumber(h.Summary.Negative)},
		{Label: "Avg Confidence", Value: fmt.Sprintf("%d%%", h.Summary.AvgConfidence)},
		{Label: "Source", Value: string(h.Source), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(summary, f.opts) + "\n\n")

	if len(h.Page.Items) == 0 {
		b.WriteString("No reviews found\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(h.Page.Items))
	for i, r := range h.Page.Items {
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%s #%s %s", f.emoji.ForSentiment(string(r.Sentiment)), r.ID, common.Truncate(r.Text, 60)),
			Value: common.ConfidencePercent(r.Confidence),
			Children: []termfmt.TreeItem{
				{Label: r.Category + " " + common.StarRating(r.Rating), Value: formatTime(r.Timestamp, f.layout), Last: true},
			},
			Last: i == len(h.Page.Items)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	fmt.Fprintf(b, "Page %d of %d (%d reviews)\n\n", h.Page.Number, max(h.Page.TotalPages, 1), h.Page.TotalItems)
}

// writeInsights writes the aggregate and its charts
func (f *terminalFormatter) writeInsights(b *strings.Builder, in *InsightsSection) {
	agg := in.Aggregate
	fmt.Fprintf(b, "%s Insights (%s)\n", f.emoji.Get("insight"), describeFilter(in.Filter, in.Granularity))

	items := []termfmt.TreeItem{
		{Label: "Reviews", Value: formatNumber(agg.Total)},
		{Label: "Positive", Value: fmt.Sprintf("%d (%.1f%%)", agg.Positive, agg.PositivePercent)},
		{Label: "Negative", Value: fmt.Sprintf("%d (%.1f%%)", agg.Negative, agg.NegativePercent)},
		{Label: "Avg Confidence", Value: fmt.Sprintf("%.1f%%", agg.AvgConfidence)},
		{Label: "Direction", Value: directionText(in.Direction), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")

	chart.Render(textChart{b: b}, agg)

	if in.Remote != nil {
		b.WriteString(f.emoji.Get("server") + " Server Trend\n")
		textChart{b: b}.DrawTrend(chart.FromRemote(*in.Remote))
	}
}

// writeMetrics writes server counters and client request statistics
func (f *terminalFormatter) writeMetrics(b *strings.Builder, m *MetricsSection) {
	fmt.Fprintf(b, "%s Metrics (%s)\n", f.emoji.Get("statistics"), m.Origin)

	items := []termfmt.TreeItem{
		{Label: "Total Reviews", Value: formatNumber(m.Metrics.TotalReviews)},
		{Label: "Positive", Value: fmt.Sprintf("%d (%.1f%%)", m.Metrics.Sentiments.Positive, m.Metrics.PositivePercent)},
		{Label: "Negative", Value: fmt.Sprintf("%d (%.1f%%)", m.Metrics.Sentiments.Negative, m.Metrics.NegativePercent)},
	}
	if labels := m.Metrics.CategoryLabels(); len(labels) > 0 {
		children := make([]termfmt.TreeItem, 0, len(labels))
		for i, label := range labels {
			children = append(children, termfmt.TreeItem{
				Label: label,
				Value: formatNumber(m.Metrics.Categories[label]),
				Last:  i == len(labels)-1,
			})
		}
		items = append(items, termfmt.TreeItem{Label: "Categories", Children: children})
	}
	items[len(items)-1].Last = true
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")

	if len(m.Requests) == 0 {
		return
	}

	requests := make([]termfmt.TreeItem, 0, len(m.Requests))
	for i, r := range m.Requests {
		requests = append(requests, termfmt.TreeItem{
			Label: string(r.Endpoint),
			Value: fmt.Sprintf("%d requests, %d errors, avg %s, p95 %s", r.Count, r.ErrorCount, r.AvgTime, r.P95Time),
			Last:  i == len(m.Requests)-1,
		})
	}
	b.WriteString(f.emoji.Get("server") + " Requests\n")
	b.WriteString(termfmt.TreeViewWithOptions(requests, f.opts) + "\n\n")
}

// writeModel writes model metadata sorted by key
func (f *terminalFormatter) writeModel(b *strings.Builder, report *Report) {
	b.WriteString(f.emoji.Get("model") + " Model\n")

	keys := make([]string, 0, len(report.Model))
	for k := range report.Model {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]termfmt.TreeItem, 0, len(keys))
	for i, k := range keys {
		items = append(items, termfmt.TreeItem{Label: k, Value: fmt.Sprint(report.Model[k]), Last: i == len(keys)-1})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}
