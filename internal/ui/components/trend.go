package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/chart"
)

// TrendChart draws the positive share per time bucket as vertical columns
type TrendChart struct {
	Title    string
	Series   chart.TrendSeries
	Width    int
	Height   int
	ShowAxis bool
	Palette  Palette
}

// NewTrendChart creates a new trend chart
func NewTrendChart(title string, series chart.TrendSeries, width, height int, p Palette) *TrendChart {
	return &TrendChart{
		Title:    title,
		Series:   series,
		Width:    width,
		Height:   height,
		ShowAxis: true,
		Palette:  p,
	}
}

// Render renders the trend chart
func (t *TrendChart) Render() string {
	p := t.Palette
	if len(t.Series.Labels) == 0 {
		return t.renderEmpty()
	}

	content := []string{p.fg(p.Primary).Bold(true).Render(t.Title), "", t.renderChart()}
	if t.ShowAxis {
		content = append(content, t.renderAxis())
	}
	content = append(content, "", t.renderSummary())

	return p.box().Padding(0, 1).Width(t.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (t *TrendChart) renderEmpty() string {
	p := t.Palette
	content := []string{
		p.fg(p.Primary).Bold(true).Render(t.Title),
		"",
		p.fg(p.Secondary).Render("No trend data available"),
	}
	return p.box().Padding(0, 1).Width(t.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// columnWidth spreads the buckets over the plot area, at least one cell each
func (t *TrendChart) columnWidth() int {
	plot := t.Width - 10
	n := len(t.Series.Labels)
	if n == 0 || plot <= n {
		return 1
	}
	return min(plot/n, 6)
}

// renderChart renders rows from 100% at the top down to 0%
func (t *TrendChart) renderChart() string {
	p := t.Palette
	rows := max(t.Height-8, 3)
	col := t.columnWidth()

	var lines []string
	for row := rows - 1; row >= 0; row-- {
		var line strings.Builder
		value := 100 * row / (rows - 1)
		line.WriteString(p.fg(p.Secondary).Render(fmt.Sprintf("%4d │", value)))

		for i := range t.Series.Labels {
			height := int(math.Round(valueAt(t.Series.Positive, i) * float64(rows-1) / 100))
			cell := strings.Repeat(" ", col)
			style := p.fg(p.Secondary)
			if valueAt(t.Series.Positive, i) > 0 && row <= height {
				cell = strings.Repeat("█", max(col-1, 1)) + strings.Repeat(" ", col-max(col-1, 1))
				style = p.fg(p.Success)
				if valueAt(t.Series.Positive, i) < 50 {
					style = p.fg(p.Error)
				}
			}
			line.WriteString(style.Render(cell))
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// renderAxis renders the baseline and the first and last labels
func (t *TrendChart) renderAxis() string {
	p := t.Palette
	col := t.columnWidth()
	width := col * len(t.Series.Labels)

	baseline := "     └" + strings.Repeat("─", width)

	first := t.Series.Labels[0]
	last := t.Series.Labels[len(t.Series.Labels)-1]
	labels := "      " + first
	if len(t.Series.Labels) > 1 {
		gap := max(width-len(first)-len(last), 1)
		labels += strings.Repeat(" ", gap) + last
	}

	return p.fg(p.Secondary).Render(baseline + "\n" + labels)
}

// renderSummary renders the bucket count and the latest share
func (t *TrendChart) renderSummary() string {
	p := t.Palette
	n := len(t.Series.Labels)
	latest := valueAt(t.Series.Positive, n-1)

	summary := []string{
		fmt.Sprintf("Buckets: %d", n),
		fmt.Sprintf("Latest: %.1f%% positive", latest),
	}
	if n > 1 {
		summary = append(summary, "Shape: "+NewSparklineChart(t.Series.Positive, min(n, 24)).Render())
	}
	return p.fg(p.Secondary).Render(strings.Join(summary, " | "))
}

// SparklineChart represents a compact sparkline chart
type SparklineChart struct {
	Values []float64
	Width  int
	Min    float64
	Max    float64
}

// NewSparklineChart creates a new sparkline chart
func NewSparklineChart(values []float64, width int) *SparklineChart {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)

	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	return &SparklineChart{
		Values: values,
		Width:  width,
		Min:    minVal,
		Max:    maxVal,
	}
}

// Render renders the sparkline chart
func (s *SparklineChart) Render() string {
	if len(s.Values) == 0 || s.Width < 1 {
		return ""
	}

	// lowest to highest
	chars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	var result strings.Builder

	step := len(s.Values) / s.Width
	if step == 0 {
		step = 1
	}

	for i := 0; i < s.Width && i*step < len(s.Values); i++ {
		value := s.Values[i*step]

		normalized := 0.0
		if s.Max > s.Min {
			normalized = (value - s.Min) / (s.Max - s.Min)
		}

		charIndex := int(normalized * float64(len(chars)-1))
		if charIndex >= len(chars) {
			charIndex = len(chars) - 1
		}

		result.WriteString(chars[charIndex])
	}

	return result.String()
}

// valueAt returns values[i], or 0 for a short series
func valueAt(values []float64, i int) float64 {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return 0
}
