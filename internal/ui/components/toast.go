package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/notify"
)

// Toasts renders live notifications, oldest on top. Fading entries are
// drawn muted.
type Toasts struct {
	Width   int
	Icons   emoji.Set
	Palette Palette
}

// Render renders entries, or "" when there are none
func (t Toasts) Render(entries []notify.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	p := t.Palette
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		color := p.status(string(e.Severity))
		if e.Severity == notify.SeverityInfo {
			color = p.Info
		}
		if e.Phase == notify.PhaseFading {
			color = p.Muted
		}

		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(t.Width)
		if !p.Plain {
			box = box.BorderForeground(color).Foreground(color)
		}
		lines = append(lines, box.Render(t.Icons.Get(string(e.Severity))+" "+e.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
