package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
)

const barWidth = 24

// textChart draws chart series as block bars into a builder
type textChart struct {
	b *strings.Builder
}

func (c textChart) DrawSentiment(s chart.SentimentSeries) {
	total := float64(s.Total())
	c.b.WriteString("Sentiment\n")
	fmt.Fprintf(c.b, "  %-10s %s %d\n", "Positive", bar(float64(s.Positive), total, barWidth), s.Positive)
	fmt.Fprintf(c.b, "  %-10s %s %d\n\n", "Negative", bar(float64(s.Negative), total, barWidth), s.Negative)
}

func (c textChart) DrawCategories(s chart.CategorySeries) {
	c.b.WriteString("Categories\n")
	if len(s.Labels) == 0 {
		c.b.WriteString("  (no data)\n\n")
		return
	}
	maxCount := 0
	for _, n := range s.Counts {
		maxCount = max(maxCount, n)
	}
	for i, label := range s.Labels {
		fmt.Fprintf(c.b, "  %-16s %s %d\n", common.Truncate(label, 16), bar(float64(s.Counts[i]), float64(maxCount), barWidth), s.Counts[i])
	}
	c.b.WriteString("\n")
}

func (c textChart) DrawTrend(s chart.TrendSeries) {
	c.b.WriteString("Trend (% positive)\n")
	if len(s.Labels) == 0 {
		c.b.WriteString("  (no data)\n\n")
		return
	}
	for i, label := range s.Labels {
		fmt.Fprintf(c.b, "  %-10s %s %5.1f%%\n", label, bar(at(s.Positive, i), 100, barWidth), at(s.Positive, i))
	}
	c.b.WriteString("\n")
}

func (c textChart) DrawRatings(s chart.RatingSeries) {
	c.b.WriteString("Ratings\n")
	maxCount := 0
	for _, n := range s.Counts {
		maxCount = max(maxCount, n)
	}
	for i := len(s.Counts) - 1; i >= 0; i-- {
		fmt.Fprintf(c.b, "  %s %s %d\n", common.StarRating(i+1), bar(float64(s.Counts[i]), float64(maxCount), barWidth), s.Counts[i])
	}
	c.b.WriteString("\n")
}

// markdownChart draws chart series as markdown tables
type markdownChart struct {
	b *strings.Builder
}

func (c markdownChart) DrawSentiment(s chart.SentimentSeries) {
	c.b.WriteString("### Sentiment Distribution\n\n")
	c.b.WriteString("| Sentiment | Count |\n|---|---|\n")
	fmt.Fprintf(c.b, "| Positive | %d |\n| Negative | %d |\n\n", s.Positive, s.Negative)
}

func (c markdownChart) DrawCategories(s chart.CategorySeries) {
	c.b.WriteString("### Categories\n\n")
	if len(s.Labels) == 0 {
		c.b.WriteString("_No data._\n\n")
		return
	}
	c.b.WriteString("| Category | Reviews | Positive | Negative |\n|---|---|---|---|\n")
	for i, label := range s.Labels {
		pos, neg := 0, 0
		if i < len(s.Positive) {
			pos = s.Positive[i]
		}
		if i < len(s.Negative) {
			neg = s.Negative[i]
		}
		fmt.Fprintf(c.b, "| %s | %d | %d | %d |\n", label, s.Counts[i], pos, neg)
	}
	c.b.WriteString("\n")
}

func (c markdownChart) DrawTrend(s chart.TrendSeries) {
	c.b.WriteString("### Sentiment Trend\n\n")
	if len(s.Labels) == 0 {
		c.b.WriteString("_No data._\n\n")
		return
	}
	c.b.WriteString("| Period | Positive % | Negative % |\n|---|---|---|\n")
	for i, label := range s.Labels {
		fmt.Fprintf(c.b, "| %s | %.1f | %.1f |\n", label, at(s.Positive, i), at(s.Negative, i))
	}
	c.b.WriteString("\n")
}

// at returns values[i], or 0 when the server sent a short series
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
