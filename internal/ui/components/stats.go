package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/emoji"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
	Palette     Palette
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      4,
		Palette:     DefaultPalette(),
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	p := s.Palette

	title := p.fg(p.Primary).Bold(true).Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		p.fg(p.status(s.Status)).Bold(true).Render(s.Value),
		p.fg(p.Secondary).Render(s.Description),
	)

	return p.box().
		Padding(0, 1).
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

// StatsDashboard represents a collection of stats cards
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
	palette    Palette
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int, p Palette) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 4,
		palette:    p,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	card.Palette = d.palette
	d.cards = append(d.cards, card)
}

// SetCardSize sets the default size for all cards
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Len returns the number of cards
func (d *StatsDashboard) Len() int {
	return len(d.cards)
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// NewMetricCards builds the dashboard cards for server metrics
func NewMetricCards(m api.Metrics, icons emoji.Set, p Palette) *StatsDashboard {
	dashboard := NewStatsDashboard(4, p)
	dashboard.SetCardSize(26, 4)

	dashboard.AddCard(NewStatsCard(
		"Total Reviews",
		formatNumber(m.TotalReviews),
		"Reviews analyzed",
	).SetIcon(icons.Get("statistics")).SetStatus("info"))

	positiveStatus := "success"
	if m.TotalReviews > 0 && m.PositivePercent < 50 {
		positiveStatus = "warning"
	}
	dashboard.AddCard(NewStatsCard(
		"Positive",
		fmt.Sprintf("%.1f%%", m.PositivePercent),
		fmt.Sprintf("%s reviews", formatNumber(m.Sentiments.Positive)),
	).SetIcon(icons.Get("positive")).SetStatus(positiveStatus))

	negativeStatus := "info"
	if m.NegativePercent > 50 {
		negativeStatus = "error"
	}
	dashboard.AddCard(NewStatsCard(
		"Negative",
		fmt.Sprintf("%.1f%%", m.NegativePercent),
		fmt.Sprintf("%s reviews", formatNumber(m.Sentiments.Negative)),
	).SetIcon(icons.Get("negative")).SetStatus(negativeStatus))

	top := "-"
	if labels := m.CategoryLabels(); len(labels) > 0 {
		top = labels[0]
		for _, label := range labels[1:] {
			if m.Categories[label] > m.Categories[top] {
				top = label
			}
		}
	}
	dashboard.AddCard(NewStatsCard(
		"Categories",
		formatNumber(len(m.Categories)),
		"Top: "+top,
	).SetIcon(icons.Get("category")).SetStatus("info"))

	return dashboard
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
	Palette Palette
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int, p Palette) *SummaryBox {
	return &SummaryBox{
		Title:   title,
		Width:   width,
		Palette: p,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	p := s.Palette
	lines := append([]string{p.fg(p.Primary).Bold(true).Render(s.Title), ""}, s.Content...)
	return p.box().Padding(0, 1).Width(s.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
