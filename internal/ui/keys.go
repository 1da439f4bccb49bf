package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard key bindings
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Jump     key.Binding
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Escape   key.Binding
	Edit     key.Binding
	Submit   key.Binding
	Sample   key.Binding
	Category key.Binding
	RatingUp key.Binding
	RatingDn key.Binding
	Filter   key.Binding
	Delete   key.Binding
	Clear    key.Binding
	Export   key.Binding
	Days     key.Binding
	Stars    key.Binding
	Bucket   key.Binding
	Apply    key.Binding
	Remote   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "jump to view")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload from server")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous page")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing, cancel")),
		Edit:     key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "edit review text")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
		Sample:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sample review")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle category")),
		RatingUp: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise rating")),
		RatingDn: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower rating")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle sentiment filter")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete review")),
		Clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear history (press twice)")),
		Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export CSV")),
		Days:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle time range")),
		Stars:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle star rating")),
		Bucket:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle trend granularity")),
		Apply:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filters")),
		Remote:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "load server insights")),
	}
}

// helpGroups lists the bindings shown on the help view, per view
func (k keyMap) helpGroups() []struct {
	title    string
	bindings []key.Binding
} {
	return []struct {
		title    string
		bindings []key.Binding
	}{
		{"Global", []key.Binding{k.Next, k.Prev, k.Jump, k.Refresh, k.Help, k.Quit}},
		{"Analyze", []key.Binding{k.Edit, k.Submit, k.Escape, k.Sample, k.Category, k.RatingUp, k.RatingDn}},
		{"History", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Filter, k.Category, k.Delete, k.Clear, k.Export}},
		{"Insights", []key.Binding{k.Category, k.Days, k.Stars, k.Bucket, k.Apply, k.Remote, k.Up, k.Down}},
	}
}
