package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/chart"
	"github.com/yildizm/SentiDash/internal/common"
)

// Bar is one labelled value of a BarChart
type Bar struct {
	Label  string
	Value  float64
	Status string
	Note   string
}

// BarChart draws horizontal bars scaled to the largest value
type BarChart struct {
	Title   string
	Bars    []Bar
	Width   int
	Palette Palette
}

// NewBarChart creates a new bar chart
func NewBarChart(title string, width int, p Palette) *BarChart {
	return &BarChart{Title: title, Width: width, Palette: p}
}

// Add appends a bar
func (c *BarChart) Add(bar Bar) *BarChart {
	c.Bars = append(c.Bars, bar)
	return c
}

// Render renders the bar chart
func (c *BarChart) Render() string {
	p := c.Palette
	lines := []string{p.fg(p.Primary).Bold(true).Render(c.Title), ""}

	if len(c.Bars) == 0 {
		lines = append(lines, p.fg(p.Secondary).Render("No data available"))
		return p.box().Padding(0, 1).Width(c.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	labelWidth := 0
	maxValue := 0.0
	for _, b := range c.Bars {
		labelWidth = max(labelWidth, len([]rune(b.Label)))
		maxValue = max(maxValue, b.Value)
	}
	labelWidth = min(labelWidth, 16)
	barWidth := max(c.Width-labelWidth-16, 4)

	for _, b := range c.Bars {
		filled := 0
		if maxValue > 0 && b.Value > 0 {
			filled = max(int(b.Value/maxValue*float64(barWidth)), 1)
		}
		label := fmt.Sprintf("%-*s", labelWidth, common.Truncate(b.Label, labelWidth))
		value := b.Note
		if value == "" {
			value = fmt.Sprintf("%g", b.Value)
		}
		lines = append(lines, fmt.Sprintf("%s %s%s %s",
			p.fg(p.Secondary).Render(label),
			p.fg(p.status(b.Status)).Render(strings.Repeat("█", filled)),
			p.fg(p.Muted).Render(strings.Repeat("░", barWidth-filled)),
			value,
		))
	}

	return p.box().Padding(0, 1).Width(c.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// ChartPanel is the TUI chart surface. Each draw call replaces one panel;
// View lays the panels out.
type ChartPanel struct {
	Width   int
	Palette Palette

	sentiment  string
	categories string
	trend      string
	ratings    string
}

// NewChartPanel creates an empty chart panel
func NewChartPanel(width int, p Palette) *ChartPanel {
	return &ChartPanel{Width: width, Palette: p}
}

func (c *ChartPanel) half() int {
	return max(c.Width/2-1, 30)
}

// DrawSentiment draws the positive/negative split
func (c *ChartPanel) DrawSentiment(s chart.SentimentSeries) {
	total := float64(s.Total())
	note := func(n int) string {
		if total == 0 {
			return "0"
		}
		return fmt.Sprintf("%d (%.1f%%)", n, float64(n)/total*100)
	}
	c.sentiment = NewBarChart("Sentiment Distribution", c.half(), c.Palette).
		Add(Bar{Label: "Positive", Value: float64(s.Positive), Status: "success", Note: note(s.Positive)}).
		Add(Bar{Label: "Negative", Value: float64(s.Negative), Status: "error", Note: note(s.Negative)}).
		Render()
}

// DrawCategories draws one bar per category
func (c *ChartPanel) DrawCategories(s chart.CategorySeries) {
	bars := NewBarChart("Categories", c.half(), c.Palette)
	for i, label := range s.Labels {
		bars.Add(Bar{Label: label, Value: float64(s.Counts[i]), Status: "info", Note: fmt.Sprintf("%d", s.Counts[i])})
	}
	c.categories = bars.Render()
}

// DrawTrend draws the positive share over time
func (c *ChartPanel) DrawTrend(s chart.TrendSeries) {
	c.trend = NewTrendChart("Sentiment Trend (% positive)", s, c.Width, 16, c.Palette).Render()
}

// DrawRatings draws the star rating histogram
func (c *ChartPanel) DrawRatings(s chart.RatingSeries) {
	bars := NewBarChart("Ratings", c.half(), c.Palette)
	for i := len(s.Counts) - 1; i >= 0; i-- {
		status := "success"
		if i < 2 {
			status = "error"
		}
		bars.Add(Bar{Label: common.StarRating(i + 1), Value: float64(s.Counts[i]), Status: status, Note: fmt.Sprintf("%d", s.Counts[i])})
	}
	c.ratings = bars.Render()
}

// View renders every drawn panel, two per row
func (c *ChartPanel) View() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top, c.sentiment, c.categories)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, c.ratings)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, c.trend)
}

// Drawn reports whether any series has been drawn
func (c *ChartPanel) Drawn() bool {
	return c.sentiment != "" || c.categories != "" || c.trend != ""
}
