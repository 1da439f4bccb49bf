package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/emoji"
)

// ListItem represents an item in a list
type ListItem struct {
	ID          string
	Title       string
	Description string
	Status      string
	Icon        string
	Data        interface{} // Store associated data
}

// List represents a navigable list component
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Focused     bool
	Width       int
	Height      int
	ShowNumbers bool
	ShowIcons   bool
	Footer      string
	Palette     Palette
}

// NewList creates a new list component
func NewList(title string, width, height int, p Palette) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
		ShowIcons:   true,
		Palette:     p,
	}
}

// AddItem adds an item to the list
func (l *List) AddItem(item *ListItem) {
	l.Items = append(l.Items, *item)
}

// SetItems sets all items in the list, keeping the selection in range
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	if l.Selected >= len(items) {
		l.Selected = max(len(items)-1, 0)
	}
}

// SetFocused sets the focus state of the list
func (l *List) SetFocused(focused bool) {
	l.Focused = focused
}

// GetSelectedItem returns the currently selected item
func (l *List) GetSelectedItem() *ListItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// MoveUp moves selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
}

// Render renders the list
func (l *List) Render() string {
	p := l.Palette

	content := []string{p.fg(p.Primary).Bold(true).Render(l.Title), ""}

	if len(l.Items) == 0 {
		content = append(content, p.fg(p.Secondary).Render("No items"))
	}

	maxVisible := max(l.Height-4, 1)

	startIndex := 0
	if l.Selected >= maxVisible {
		startIndex = l.Selected - maxVisible + 1
	}
	endIndex := min(startIndex+maxVisible, len(l.Items))

	for i := startIndex; i < endIndex; i++ {
		content = append(content, l.renderItem(&l.Items[i], i+1, l.Focused && i == l.Selected))
	}

	if len(l.Items) > maxVisible {
		content = append(content, "", p.fg(p.Secondary).Render(fmt.Sprintf("(%d-%d of %d)", startIndex+1, endIndex, len(l.Items))))
	}
	if l.Footer != "" {
		content = append(content, "", p.fg(p.Secondary).Render(l.Footer))
	}

	return p.box().Width(l.Width).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	p := l.Palette

	var parts []string
	if selected {
		parts = append(parts, "▶")
	} else {
		parts = append(parts, " ")
	}
	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if l.ShowIcons && item.Icon != "" {
		parts = append(parts, item.Icon)
	}

	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	line := strings.Join(parts, " ")

	style := p.fg(p.status(item.Status))
	if selected && !p.Plain {
		style = lipgloss.NewStyle().Background(p.Selected).Foreground(p.Primary).Bold(true)
	}

	return style.Width(max(l.Width-4, 10)).Render(line)
}

// NewReviewList creates a list of history records
func NewReviewList(title string, records []common.Record, width, height int, icons emoji.Set, timeLayout string, p Palette) *List {
	list := NewList(title, width, height, p)
	list.ShowNumbers = false

	textWidth := max(width-40, 20)
	for _, r := range records {
		status := "success"
		if r.Sentiment == common.SentimentNegative {
			status = "error"
		}

		description := fmt.Sprintf("%s %s %s", r.Category, common.StarRating(r.Rating), common.ConfidencePercent(r.Confidence))
		if !r.Timestamp.IsZero() {
			description += " " + r.Timestamp.Format(timeLayout)
		}

		item := ListItem{
			ID:          string(r.ID),
			Title:       common.Truncate(r.Text, textWidth),
			Description: description,
			Status:      status,
			Icon:        icons.ForSentiment(string(r.Sentiment)),
			Data:        r,
		}
		list.AddItem(&item)
	}

	return list
}
