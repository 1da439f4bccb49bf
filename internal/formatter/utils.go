package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/insights"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// formatTime renders t, or "-" when unknown
func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

// bar renders value out of max as a fixed-width block bar
func bar(value, max float64, width int) string {
	if max <= 0 || value <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// describeCriteria summarizes history filters for headers
func describeCriteria(c history.Criteria) string {
	if c.IsEmpty() {
		return "all reviews"
	}
	var parts []string
	if c.Sentiment != "" {
		parts = append(parts, "sentiment="+string(c.Sentiment))
	}
	if c.Category != "" && !strings.EqualFold(c.Category, "all") {
		parts = append(parts, "category="+c.Category)
	}
	return strings.Join(parts, ", ")
}

// describeFilter summarizes insights filters for headers
func describeFilter(f insights.Filter, g insights.Granularity) string {
	category := f.Category
	if category == "" {
		category = "all"
	}
	days := "all time"
	if f.Days > 0 {
		days = fmt.Sprintf("last %d days", f.Days)
	}
	rating := "any rating"
	if f.Rating > 0 {
		rating = fmt.Sprintf("%d stars", f.Rating)
	}
	return fmt.Sprintf("category %s, %s, %s, by %s", category, days, rating, g)
}

// directionText words a trend direction
func directionText(d insights.Direction) string {
	switch d.Type {
	case "improving":
		return fmt.Sprintf("improving (%+.1f points per bucket)", d.Slope)
	case "declining":
		return fmt.Sprintf("declining (%+.1f points per bucket)", d.Slope)
	default:
		return "stable"
	}
}
