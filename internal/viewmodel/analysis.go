package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/logger"
)

// State of the analysis form
type State int

const (
	StateIdle State = iota
	StateAnalyzing
)

func (s State) String() string {
	if s == StateAnalyzing {
		return "analyzing"
	}
	return "idle"
}

// Notification texts of the analysis form
const (
	MsgEmptyReview      = "Please enter a review text to analyze"
	MsgAnalysisComplete = "Analysis completed successfully"
)

// ResultTimeLayout renders the time of an analysis result
const ResultTimeLayout = "Jan 2, 2006 15:04:05"

var (
	// ErrBusy is returned by Begin while a request is in flight
	ErrBusy = errors.New("analysis already in progress")

	// ErrEmptyText is returned by Begin for blank review text
	ErrEmptyText = errors.New("review text is empty")
)

// Analyzer is the part of the API client the analysis form needs
type Analyzer interface {
	Analyze(ctx context.Context, req common.Request) api.Result[api.AnalysisResponse]
}

// Form is the editable input of one analysis
type Form struct {
	Text     string
	Category string
	Rating   int
}

// DefaultForm returns the form preselection
func DefaultForm() Form {
	return Form{Category: common.DefaultCategory, Rating: common.MaxRating}
}

// Request converts the form into an API request
func (f Form) Request() common.Request {
	return common.Request{Text: f.Text, Category: f.Category, Rating: f.Rating}
}

// ResultView is the display form of a finished analysis
type ResultView struct {
	Sentiment  common.Sentiment
	Label      string
	Confidence string
	Category   string
	Rating     int
	Stars      string
	Timestamp  string
	Record     common.Record
}

// Analysis drives the analyze form through Idle and Analyzing. Begin and
// Complete split Submit so the request can run on another goroutine.
type Analysis struct {
	mu     sync.Mutex
	client Analyzer
	deps   Deps
	seq    Sequencer
	newID  func() common.ID

	state  State
	form   Form
	result *ResultView
}

// NewAnalysis creates an idle analysis form
func NewAnalysis(client Analyzer, deps Deps) *Analysis {
	return &Analysis{
		client: client,
		deps:   deps.withDefaults("analysis"),
		newID:  func() common.ID { return common.ID(uuid.NewString()) },
		form:   DefaultForm(),
	}
}

// State returns the current state
func (a *Analysis) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Form returns the current input
func (a *Analysis) Form() Form {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form
}

// SetText replaces the review text
func (a *Analysis) SetText(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form.Text = text
}

// SetCategory replaces the category
func (a *Analysis) SetCategory(category string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form.Category = category
}

// SetRating replaces the rating, clamped to 1-5
func (a *Analysis) SetRating(rating int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form.Rating = max(common.MinRating, min(common.MaxRating, rating))
}

// UseSample loads sample review i (0-based) into the form
func (a *Analysis) UseSample(i int) error {
	samples := SampleReviews()
	if i < 0 || i >= len(samples) {
		return fmt.Errorf("sample %d out of range 0-%d", i, len(samples)-1)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form = samples[i]
	return nil
}

// Result returns the last result, if any
func (a *Analysis) Result() (ResultView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result == nil {
		return ResultView{}, false
	}
	return *a.result, true
}

// Begin validates the form and moves to Analyzing. A blank text shows one
// warning and issues no ticket.
func (a *Analysis) Begin() (Ticket, common.Request, error) {
	a.mu.Lock()
	if a.state == StateAnalyzing {
		a.mu.Unlock()
		return 0, common.Request{}, ErrBusy
	}
	if strings.TrimSpace(a.form.Text) == "" {
		a.mu.Unlock()
		a.deps.Notifier.Warning(MsgEmptyReview)
		return 0, common.Request{}, ErrEmptyText
	}

	a.state = StateAnalyzing
	a.result = nil
	ticket := a.seq.Next()
	req := a.form.Request()
	a.mu.Unlock()

	a.deps.Logger.Debug("analysis %d started", ticket)
	return ticket, req, nil
}

// Complete applies the outcome of the request issued with ticket. Stale
// tickets are ignored and Complete returns false.
func (a *Analysis) Complete(ticket Ticket, res api.Result[api.AnalysisResponse]) bool {
	a.mu.Lock()
	if !a.seq.IsCurrent(ticket) || a.state != StateAnalyzing {
		a.mu.Unlock()
		a.deps.Logger.Debug("discarding stale analysis %d", ticket)
		return false
	}
	a.state = StateIdle

	if !res.Success {
		a.mu.Unlock()
		a.deps.Logger.WarnWithFields("analysis failed", []logger.Field{
			logger.F("kind", res.Kind),
			logger.F("message", res.Message),
		})
		a.deps.Notifier.Error(failureMessage(res.Kind, res.Message))
		return true
	}

	id := res.Data.ID
	if id == "" {
		id = a.newID()
	}
	record := res.Data.Record(id)
	view := newResultView(record)
	a.result = &view
	a.mu.Unlock()

	a.deps.Store.Add(record)
	a.deps.Notifier.Success(MsgAnalysisComplete)
	return true
}

// Cancel returns to Idle and makes any in-flight result stale
func (a *Analysis) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq.Invalidate()
	a.state = StateIdle
}

// Submit runs one full analysis. The returned error is the request failure,
// already shown as a notification.
func (a *Analysis) Submit(ctx context.Context) error {
	ticket, req, err := a.Begin()
	if err != nil {
		return err
	}
	res := a.client.Analyze(ctx, req)
	a.Complete(ticket, res)
	return res.Err()
}

// Run calls the server for req without touching form state. It is the
// middle step between Begin and Complete.
func (a *Analysis) Run(ctx context.Context, req common.Request) api.Result[api.AnalysisResponse] {
	return a.client.Analyze(ctx, req)
}

func newResultView(r common.Record) ResultView {
	return ResultView{
		Sentiment:  r.Sentiment,
		Label:      r.Sentiment.Label(),
		Confidence: common.ConfidencePercent(r.Confidence),
		Category:   r.Category,
		Rating:     r.Rating,
		Stars:      common.StarRating(r.Rating),
		Timestamp:  formatResultTime(r.Timestamp),
		Record:     r,
	}
}

func formatResultTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(ResultTimeLayout)
}

// failureMessage words a failed request the way the analyze form shows it
func failureMessage(kind api.Kind, message string) string {
	if kind == api.KindApplication {
		return "Analysis failed: " + message
	}
	return "Error: " + message
}

// SampleReviews returns the example inputs offered by the analyze form
func SampleReviews() []Form {
	records := history.SampleRecords(time.Time{})
	forms := make([]Form, 0, len(records))
	for _, r := range records {
		forms = append(forms, Form{Text: r.Text, Category: r.Category, Rating: r.Rating})
	}
	return forms
}
