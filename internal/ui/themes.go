package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SentiDash/internal/ui/components"
)

// Theme is the color set of the dashboard. Positive and Negative color
// sentiment everywhere a review is shown.
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Positive lipgloss.AdaptiveColor
	Negative lipgloss.AdaptiveColor
	Warning  lipgloss.AdaptiveColor
	Info     lipgloss.AdaptiveColor

	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Selected   lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme is used when no theme is selected
var DefaultTheme = Theme{
	Name:       "default",
	Primary:    adaptive("#1E40AF", "#3B82F6"),
	Secondary:  adaptive("#6B7280", "#9CA3AF"),
	Accent:     adaptive("#7C3AED", "#A855F7"),
	Positive:   adaptive("#047857", "#34D399"),
	Negative:   adaptive("#B91C1C", "#F87171"),
	Warning:    adaptive("#D97706", "#F59E0B"),
	Info:       adaptive("#0891B2", "#22D3EE"),
	Border:     adaptive("#D1D5DB", "#374151"),
	Foreground: adaptive("#111827", "#F9FAFB"),
	Muted:      adaptive("#6B7280", "#9CA3AF"),
	Selected:   adaptive("#DBEAFE", "#1E3A8A"),
}

var themes = map[string]Theme{
	DefaultTheme.Name: DefaultTheme,
	"high-contrast": {
		Name:       "high-contrast",
		Primary:    adaptive("#000000", "#FFFFFF"),
		Secondary:  adaptive("#444444", "#CCCCCC"),
		Accent:     adaptive("#000080", "#8080FF"),
		Positive:   adaptive("#006600", "#00FF00"),
		Negative:   adaptive("#CC0000", "#FF4444"),
		Warning:    adaptive("#994C00", "#FFAA00"),
		Info:       adaptive("#0050A0", "#4499FF"),
		Border:     adaptive("#000000", "#FFFFFF"),
		Foreground: adaptive("#000000", "#FFFFFF"),
		Muted:      adaptive("#444444", "#CCCCCC"),
		Selected:   adaptive("#CCCCCC", "#333333"),
	},
	"minimal": {
		Name:       "minimal",
		Primary:    adaptive("#2D3748", "#E2E8F0"),
		Secondary:  adaptive("#718096", "#A0AEC0"),
		Accent:     adaptive("#4A5568", "#CBD5E0"),
		Positive:   adaptive("#2F855A", "#68D391"),
		Negative:   adaptive("#C53030", "#FC8181"),
		Warning:    adaptive("#C05621", "#F6AD55"),
		Info:       adaptive("#2B6CB0", "#63B3ED"),
		Border:     adaptive("#E2E8F0", "#2D3748"),
		Foreground: adaptive("#2D3748", "#F7FAFC"),
		Muted:      adaptive("#A0AEC0", "#718096"),
		Selected:   adaptive("#EDF2F7", "#2D3748"),
	},
}

// ThemeByName looks a theme up, "" meaning the default
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return DefaultTheme, true
	}
	t, ok := themes[name]
	return t, ok
}

// AvailableThemes returns the theme names in sorted order
func AvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorDisabled reports whether NO_COLOR asks for plain output
func ColorDisabled(getenv func(string) string) bool {
	return getenv("NO_COLOR") != ""
}

// Palette converts the theme for the components package
func (t Theme) Palette(plain bool) components.Palette {
	return components.Palette{
		Primary:   t.Primary,
		Secondary: t.Secondary,
		Success:   t.Positive,
		Warning:   t.Warning,
		Error:     t.Negative,
		Info:      t.Info,
		Muted:     t.Muted,
		Border:    t.Border,
		Selected:  t.Selected,
		Plain:     plain,
	}
}

// Styles are the app-level styles derived from a theme
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Info      lipgloss.Style
	Insight   lipgloss.Style

	Selected lipgloss.Style
	Focused  lipgloss.Style
	Box      lipgloss.Style
	Panel    lipgloss.Style
}

// NewStyles builds the app styles for theme
func NewStyles(theme Theme) *Styles {
	bold := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return &Styles{
		Theme:     theme,
		Title:     bold(theme.Primary).Padding(0, 1),
		Header:    bold(theme.Primary),
		Subheader: bold(theme.Secondary),
		Body:      lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:     lipgloss.NewStyle().Foreground(theme.Muted),
		Info:      lipgloss.NewStyle().Foreground(theme.Info),
		Insight:   bold(theme.Accent),
		Selected:  bold(theme.Primary).Background(theme.Selected),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}
