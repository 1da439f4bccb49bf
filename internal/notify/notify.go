package notify

import (
	"sync"
	"time"
)

// Severity of a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Default display timings
const (
	DefaultVisible = 3000 * time.Millisecond
	DefaultFade    = 500 * time.Millisecond
)

// Phase is where a notification is in its lifetime
type Phase int

const (
	PhaseVisible Phase = iota
	PhaseFading
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseVisible:
		return "visible"
	case PhaseFading:
		return "fading"
	default:
		return "expired"
	}
}

// Notification is one transient message
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Entry is a live notification together with its current phase
type Entry struct {
	Notification
	Phase Phase
}

// Listener is called synchronously from Show
type Listener func(Notification)

// Service holds the notifications of one application instance.
// Show never blocks on display and never dedups: identical messages stack.
type Service struct {
	mu        sync.Mutex
	visible   time.Duration
	fade      time.Duration
	now       func() time.Time
	items     []Notification
	listeners []Listener
	nextID    uint64
}

// Option configures a Service
type Option func(*Service)

// WithDurations overrides the visible and fade durations
func WithDurations(visible, fade time.Duration) Option {
	return func(s *Service) {
		if visible > 0 {
			s.visible = visible
		}
		if fade >= 0 {
			s.fade = fade
		}
	}
}

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a notification service
func New(opts ...Option) *Service {
	s := &Service{
		visible: DefaultVisible,
		fade:    DefaultFade,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for new notifications
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Show displays a message. An empty severity means info.
func (s *Service) Show(message string, severity Severity) Notification {
	if severity == "" {
		severity = SeverityInfo
	}

	s.mu.Lock()
	s.nextID++
	n := Notification{
		ID:        s.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now(),
	}
	s.pruneLocked(n.CreatedAt)
	s.items = append(s.items, n)
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(n)
	}
	return n
}

// Info shows an info message
func (s *Service) Info(message string) Notification { return s.Show(message, SeverityInfo) }

// Success shows a success message
func (s *Service) Success(message string) Notification { return s.Show(message, SeveritySuccess) }

// Warning shows a warning message
func (s *Service) Warning(message string) Notification { return s.Show(message, SeverityWarning) }

// Error shows an error message
func (s *Service) Error(message string) Notification { return s.Show(message, SeverityError) }

// PhaseOf returns the phase of n at time now
func (s *Service) PhaseOf(n Notification, now time.Time) Phase {
	age := now.Sub(n.CreatedAt)
	switch {
	case age < s.visible:
		return PhaseVisible
	case age < s.visible+s.fade:
		return PhaseFading
	default:
		return PhaseExpired
	}
}

// Lifetime is the time from Show to removal
func (s *Service) Lifetime() time.Duration {
	return s.visible + s.fade
}

// Active returns the live notifications, oldest first, dropping expired ones
func (s *Service) Active() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	entries := make([]Entry, 0, len(s.items))
	for _, n := range s.items {
		entries = append(entries, Entry{Notification: n, Phase: s.PhaseOf(n, now)})
	}
	return entries
}

// Len returns the number of live notifications
func (s *Service) Len() int {
	return len(s.Active())
}

func (s *Service) pruneLocked(now time.Time) {
	kept := s.items[:0]
	for _, n := range s.items {
		if s.PhaseOf(n, now) != PhaseExpired {
			kept = append(kept, n)
		}
	}
	s.items = kept
}
