package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/emoji"
)

// DetailViewer represents a detailed view of a specific item
type DetailViewer struct {
	Title   string
	Content []DetailSection
	Width   int
	Palette Palette
}

// DetailSection represents a section in the detail view
type DetailSection struct {
	Title   string
	Content []string
	Style   string // "info", "warning", "error", "success"
}

// NewDetailViewer creates a new detail viewer
func NewDetailViewer(title string, width int, p Palette) *DetailViewer {
	return &DetailViewer{
		Title:   title,
		Width:   width,
		Palette: p,
	}
}

// AddSection adds a section to the detail view
func (d *DetailViewer) AddSection(section DetailSection) {
	d.Content = append(d.Content, section)
}

// Clear clears all content
func (d *DetailViewer) Clear() {
	d.Content = d.Content[:0]
}

// Render renders the detail viewer
func (d *DetailViewer) Render() string {
	p := d.Palette

	content := make([]string, 0, len(d.Content)*3+2)
	content = append(content, p.fg(p.Primary).Bold(true).Render(d.Title), "")

	for _, section := range d.Content {
		content = append(content, d.renderSection(section)...)
		content = append(content, "")
	}

	return p.box().Padding(0, 1).Width(d.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// renderSection renders a detail section
func (d *DetailViewer) renderSection(section DetailSection) []string {
	p := d.Palette

	lines := make([]string, 0, len(section.Content)+1)
	lines = append(lines, p.fg(p.status(section.Style)).Bold(true).Render(section.Title))

	body := p.fg(p.Secondary).Width(max(d.Width-8, 10))
	for _, line := range section.Content {
		lines = append(lines, body.Render("  "+line))
	}

	return lines
}

// NewReviewDetail shows one classified review
func NewReviewDetail(r common.Record, width int, icons emoji.Set, timeLayout string, p Palette) *DetailViewer {
	d := NewDetailViewer(fmt.Sprintf("%s %s", icons.ForSentiment(string(r.Sentiment)), r.Sentiment.Label()), width, p)

	style := "success"
	if r.Sentiment == common.SentimentNegative {
		style = "error"
	}

	d.AddSection(DetailSection{Title: "Review", Content: []string{r.Text}, Style: "info"})
	d.AddSection(DetailSection{
		Title: "Result",
		Style: style,
		Content: []string{
			NewConfidenceBar(r.Confidence, 20, p).Render(),
			fmt.Sprintf("Category: %s", r.Category),
			fmt.Sprintf("Rating:   %s", common.StarRating(r.Rating)),
		},
	})
	if !r.Timestamp.IsZero() || r.ID != "" {
		meta := []string{}
		if r.ID != "" {
			meta = append(meta, "ID: "+string(r.ID))
		}
		if !r.Timestamp.IsZero() {
			meta = append(meta, "Analyzed: "+r.Timestamp.Format(timeLayout))
		}
		d.AddSection(DetailSection{Title: "Details", Content: meta})
	}

	return d
}
