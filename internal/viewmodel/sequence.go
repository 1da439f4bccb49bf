// Package viewmodel holds the screen state of the dashboard: the analysis
// form, the history list, the insights filters and the dashboard summary.
// View-models own no rendering and talk to the server through small
// interfaces satisfied by *api.Client.
package viewmodel

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/notify"
)

// Ticket identifies one request issued by a view-model
type Ticket uint64

// Sequencer hands out increasing tickets. Only the latest ticket is current;
// results carrying an older one are stale and get discarded.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new current ticket
func (s *Sequencer) Next() Ticket {
	return Ticket(s.last.Add(1))
}

// Invalidate makes every issued ticket stale
func (s *Sequencer) Invalidate() {
	s.last.Add(1)
}

// IsCurrent reports whether t is the most recently issued ticket
func (s *Sequencer) IsCurrent(t Ticket) bool {
	return t != 0 && uint64(t) == s.last.Load()
}

// Deps are the application services shared by all view-models
type Deps struct {
	Store    *history.Store
	Notifier *notify.Service
	Logger   *logger.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults(component string) Deps {
	if d.Store == nil {
		d.Store = history.New(history.DefaultCapacity)
	}
	if d.Notifier == nil {
		d.Notifier = notify.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	d.Logger = d.Logger.WithComponent(component)
	return d
}

// messageOf returns the user-facing part of err
func messageOf(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
