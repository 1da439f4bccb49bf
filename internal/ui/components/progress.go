package components

import (
	"fmt"
	"strings"
)

// ProgressBar renders a value out of a total as a filled bar
type ProgressBar struct {
	Width   int
	Current float64
	Total   float64
	Label   string
	Status  string
	Palette Palette
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int, p Palette) *ProgressBar {
	return &ProgressBar{Width: width, Total: 1, Status: "success", Palette: p}
}

// NewConfidenceBar shows a classifier confidence in [0,1]
func NewConfidenceBar(confidence float64, width int, p Palette) *ProgressBar {
	bar := NewProgressBar(width, p)
	bar.SetProgress(confidence, 1)
	bar.SetLabel("Confidence")
	switch {
	case confidence < 0.6:
		bar.Status = "warning"
	case confidence < 0.8:
		bar.Status = "info"
	}
	return bar
}

// SetProgress updates the progress
func (b *ProgressBar) SetProgress(current, total float64) {
	b.Current = current
	b.Total = total
}

// SetLabel sets the progress label
func (b *ProgressBar) SetLabel(label string) {
	b.Label = label
}

// Ratio returns Current/Total clamped to [0,1]
func (b *ProgressBar) Ratio() float64 {
	if b.Total <= 0 {
		return 0
	}
	return min(max(b.Current/b.Total, 0), 1)
}

// Render renders the progress bar
func (b *ProgressBar) Render() string {
	p := b.Palette
	ratio := b.Ratio()

	width := max(b.Width, 1)
	filled := int(float64(width) * ratio)

	bar := p.fg(p.status(b.Status)).Bold(true).Render(strings.Repeat("█", filled)) +
		p.fg(p.Muted).Render(strings.Repeat("░", width-filled))

	out := fmt.Sprintf("%s %.1f%%", bar, ratio*100)
	if b.Label != "" {
		out = p.fg(p.Secondary).Render(b.Label+": ") + out
	}
	return out
}
