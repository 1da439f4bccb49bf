package components

import "github.com/charmbracelet/lipgloss"

// Palette carries the colors components render with. Plain disables all
// color, e.g. for NO_COLOR terminals.
type Palette struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Plain     bool
}

// DefaultPalette returns the colors used when no theme is set
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Success:   lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"},
		Warning:   lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"},
		Error:     lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"},
		Info:      lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#06B6D4"},
		Muted:     lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		Selected:  lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"},
	}
}

// fg returns a style with foreground c, or an unstyled one when Plain
func (p Palette) fg(c lipgloss.AdaptiveColor) lipgloss.Style {
	if p.Plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

// box returns a rounded border style
func (p Palette) box() lipgloss.Style {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if p.Plain {
		return style
	}
	return style.BorderForeground(p.Border)
}

// status maps a status name to its color
func (p Palette) status(status string) lipgloss.AdaptiveColor {
	switch status {
	case "success":
		return p.Success
	case "warning":
		return p.Warning
	case "error":
		return p.Error
	case "info":
		return p.Primary
	default:
		return p.Secondary
	}
}
