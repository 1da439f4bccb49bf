package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// Results of background requests. Each carries the ticket it was issued
// with so the view-model can drop stale ones.
type analysisDoneMsg struct {
	ticket viewmodel.Ticket
	res    api.Result[api.AnalysisResponse]
}

type historyLoadedMsg struct {
	ticket  viewmodel.Ticket
	outcome history.Outcome
}

type metricsMsg struct {
	ticket viewmodel.Ticket
	res    api.Result[api.Metrics]
}

type remoteInsightsMsg struct {
	ticket viewmodel.Ticket
	res    api.Result[api.RemoteInsights]
}

type modelInfoMsg struct {
	res api.Result[api.ModelInfo]
}

// actionDoneMsg ends a delete, clear or export
type actionDoneMsg struct {
	err error
}

// toastTickMsg re-renders so notifications fade and expire on time
type toastTickMsg time.Time

func toastTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}
