package ui

import (
	"context"
	"time"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// View represents different UI views
type View int

const (
	ViewDashboard View = iota
	ViewAnalyze
	ViewHistory
	ViewInsights
	ViewModel
	ViewHelp
)

// views is the tab order
var views = []View{ViewDashboard, ViewAnalyze, ViewHistory, ViewInsights, ViewModel, ViewHelp}

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewAnalyze:
		return "Analyze"
	case ViewHistory:
		return "History"
	case ViewInsights:
		return "Insights"
	case ViewModel:
		return "Model"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Backend is every server capability the dashboard uses
type Backend interface {
	viewmodel.Analyzer
	viewmodel.HistoryClient
	viewmodel.InsightsSource
	viewmodel.MetricsSource
	ModelInfo(ctx context.Context) api.Result[api.ModelInfo]
}

// Options configures the dashboard
type Options struct {
	Backend  Backend
	Store    *history.Store
	Notifier *notify.Service
	Logger   *logger.Logger

	// Loader replaces the default history loader, e.g. to add a snapshot cache
	Loader *history.Loader

	Emoji    emoji.Set
	Theme    Theme
	Color    bool
	PageSize int
	Filters  viewmodel.InsightsFilters

	// ExportPath is where "x" in the history view writes the CSV export
	ExportPath string
	// RequestTimeout bounds each server call, 0 means no bound
	RequestTimeout time.Duration
	// TimeLayout formats record timestamps in lists
	TimeLayout string
}
