package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	layout string
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(o Options) Formatter {
	return &markdownFormatter{layout: o.timeLayout()}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	title := report.Title
	if title == "" {
		title = "Sentiment Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
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

func (f *markdownFormatter) writeAnalysis(b *strings.Builder, r common.Record) {
	b.WriteString("## Analysis\n\n")
	fmt.Fprintf(b, "> %s\n\n", escapeMarkdown(r.Text))
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Sentiment | **%s** |\n", r.Sentiment)
	fmt.Fprintf(b, "| Confidence | %s |\n", common.ConfidencePercent(r.Confidence))
	fmt.Fprintf(b, "| Category | %s |\n", escapeMarkdown(r.Category))
	fmt.Fprintf(b, "| Rating | %s |\n", common.StarRating(r.Rating))
	fmt.Fprintf(b, "| Analyzed | %s |\n\n", formatTime(r.Timestamp, f.layout))
}

func (f *markdownFormatter) writeHistory(b *strings.Builder, h *HistorySection) {
	b.WriteString("## History\n\n")
	fmt.Fprintf(b, "Showing %s, page %d of %d. Source: %s.\n\n",
		describeCriteria(h.Criteria), h.Page.Number, max(h.Page.TotalPages, 1), h.Source)

	b.WriteString("| Total | Positive | Negative | Avg Confidence |\n|---|---|---|---|\n")
	fmt.Fprintf(b, "| %d | %d | %d | %d%% |\n\n", h.Summary.Total, h.Summary.Positive, h.Summary.Negative, h.Summary.AvgConfidence)

	if len(h.Page.Items) == 0 {
		b.WriteString("_No reviews found._\n\n")
		return
	}

	b.WriteString("| ID | Review | Category | Rating | Sentiment | Confidence | Date |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range h.Page.Items {
		fmt.Fprintf(b, "| %s | %s | %s | %d | %s | %s | %s |\n",
			r.ID, escapeMarkdown(common.Truncate(r.Text, 80)), escapeMarkdown(r.Category), r.Rating,
			r.Sentiment, common.ConfidencePercent(r.Confidence), formatTime(r.Timestamp, f.layout))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeInsights(b *strings.Builder, in *InsightsSection) {
	b.WriteString("## Insights\n\n")
	fmt.Fprintf(b, "Filters: %s. Direction: %s.\n\n", describeFilter(in.Filter, in.Granularity), directionText(in.Direction))

	chart.Render(markdownChart{b: b}, in.Aggregate)

	if in.Remote != nil {
		b.WriteString("#### Server Trend\n\n")
		markdownChart{b: b}.DrawTrend(chart.FromRemote(*in.Remote))
	}
}

func (f *markdownFormatter) writeMetrics(b *strings.Builder, m *MetricsSection) {
	fmt.Fprintf(b, "## Metrics\n\nOrigin: %s\n\n", m.Origin)
	b.WriteString("| Total Reviews | Positive % | Negative % |\n|---|---|---|\n")
	fmt.Fprintf(b, "| %d | %.1f | %.1f |\n\n", m.Metrics.TotalReviews, m.Metrics.PositivePercent, m.Metrics.NegativePercent)

	if len(m.Requests) > 0 {
		b.WriteString("| Endpoint | Requests | Errors | Avg | P95 |\n|---|---|---|---|---|\n")
		for _, r := range m.Requests {
			fmt.Fprintf(b, "| %s | %d | %d | %s | %s |\n", r.Endpoint, r.Count, r.ErrorCount, r.AvgTime, r.P95Time)
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) writeModel(b *strings.Builder, report *Report) {
	b.WriteString("## Model\n\n| Key | Value |\n|---|---|\n")
	keys := make([]string, 0, len(report.Model))
	for k := range report.Model {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "| %s | %s |\n", k, escapeMarkdown(fmt.Sprint(report.Model[k])))
	}
	b.WriteString("\n")
}

// escapeMarkdown keeps table cells on one line
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
