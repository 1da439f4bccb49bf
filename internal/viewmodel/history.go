package viewmodel

import (
	"context"
	"io"
	"sync"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/logger"
)

// Notification texts of the history page
const (
	MsgReviewDeleted   = "Review deleted successfully"
	MsgDeleteFailed    = "Failed to delete review"
	MsgHistoryCleared  = "Review history cleared successfully"
	MsgClearFailed     = "Failed to clear review history"
	msgHistoryLoadFail = "Error loading history: "
)

// HistoryClient is the part of the API client the history page needs
type HistoryClient interface {
	history.Fetcher
	DeleteReview(ctx context.Context, id common.ID) api.Result[api.Ack]
	ClearHistory(ctx context.Context) api.Result[api.Ack]
}

// HistoryOption configures a History view-model
type HistoryOption func(*History)

// WithPageSize sets the number of records per page
func WithPageSize(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.pageSize = n
		}
	}
}

// WithLoader replaces the default loader, e.g. to add a snapshot cache
func WithLoader(l *history.Loader) HistoryOption {
	return func(h *History) { h.loader = l }
}

// History is the filtered, paginated view over the shared store
type History struct {
	mu       sync.Mutex
	client   HistoryClient
	deps     Deps
	loader   *history.Loader
	seq      Sequencer
	criteria history.Criteria
	page     int
	pageSize int
	loading  bool
	source   history.Source
	// since is the store generation when the current reload began
	since history.Generation
}

// NewHistory creates the history view-model on page 1 with no filters
func NewHistory(client HistoryClient, deps Deps, opts ...HistoryOption) *History {
	h := &History{
		client:   client,
		deps:     deps.withDefaults("history"),
		page:     1,
		pageSize: history.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.loader == nil {
		h.loader = history.NewLoader(client, h.deps.Store,
			history.WithLogger(h.deps.Logger),
			history.WithNow(h.deps.Now))
	}
	return h
}

// BeginLoad marks a reload in flight and returns its ticket
func (h *History) BeginLoad() Ticket {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = true
	h.since = h.loader.Generation()
	return h.seq.Next()
}

// Fetch calls the server without touching view state
func (h *History) Fetch(ctx context.Context) history.Outcome {
	return h.loader.Fetch(ctx)
}

// CompleteLoad applies the outcome of the reload issued with ticket. A
// failed fetch still fills the store with sample data and shows an error.
// Records analyzed or deleted while the reload was in flight survive it;
// a reload that crossed a clear is dropped.
func (h *History) CompleteLoad(ticket Ticket, o history.Outcome) bool {
	h.mu.Lock()
	if !h.seq.IsCurrent(ticket) {
		h.mu.Unlock()
		h.deps.Logger.Debug("discarding stale history load %d", ticket)
		return false
	}
	h.loading = false
	if !h.loader.ApplySince(h.since, o) {
		h.mu.Unlock()
		return false
	}
	h.source = o.Source
	h.page = 1
	h.mu.Unlock()

	if o.Err != nil {
		h.deps.Notifier.Error(msgHistoryLoadFail + messageOf(o.Err))
	}
	return true
}

// Load reloads the store from the server
func (h *History) Load(ctx context.Context) history.Outcome {
	ticket := h.BeginLoad()
	o := h.Fetch(ctx)
	h.CompleteLoad(ticket, o)
	return o
}

// Loading reports whether a reload is in flight
func (h *History) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// Source tells where the current records came from
func (h *History) Source() history.Source {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.source
}

// Criteria returns the active filters
func (h *History) Criteria() history.Criteria {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.criteria
}

// SetCriteria replaces the filters and returns to page 1
func (h *History) SetCriteria(c history.Criteria) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.criteria = c
	h.page = 1
}

// SetSentiment filters by sentiment; empty clears the filter
func (h *History) SetSentiment(s common.Sentiment) {
	c := h.Criteria()
	c.Sentiment = s
	h.SetCriteria(c)
}

// SetCategory filters by category; empty or "all" clears the filter
func (h *History) SetCategory(category string) {
	c := h.Criteria()
	c.Category = category
	h.SetCriteria(c)
}

// Filtered returns the store contents passing the filters, newest first
func (h *History) Filtered() []common.Record {
	return history.Filter(h.deps.Store.Records(), h.Criteria())
}

// Page returns the current page of the filtered view
func (h *History) Page() history.Page {
	filtered := h.Filtered()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.page = history.ClampPage(h.page, history.TotalPages(len(filtered), h.pageSize))
	return history.Paginate(filtered, h.page, h.pageSize)
}

// GoTo moves to page n, clamped to the available pages
func (h *History) GoTo(n int) {
	total := history.TotalPages(len(h.Filtered()), h.pageSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.page = history.ClampPage(n, total)
}

// NextPage moves forward one page if there is one
func (h *History) NextPage() {
	h.GoTo(h.currentPage() + 1)
}

// PrevPage moves back one page if there is one
func (h *History) PrevPage() {
	h.GoTo(h.currentPage() - 1)
}

func (h *History) currentPage() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

// Summary counts the filtered view
func (h *History) Summary() history.Summary {
	return history.Summarize(h.Filtered())
}

// Delete removes a record on the server, then locally
func (h *History) Delete(ctx context.Context, id common.ID) error {
	res := h.client.DeleteReview(ctx, id)
	if !res.Success {
		h.deps.Logger.WarnWithFields("delete failed", []logger.Field{
			logger.F("id", id),
			logger.F("message", res.Message),
		})
		if res.Kind == api.KindApplication {
			h.deps.Notifier.Error(MsgDeleteFailed)
		} else {
			h.deps.Notifier.Error("Error: " + res.Message)
		}
		return res.Err()
	}

	h.deps.Store.Delete(id)
	h.GoTo(h.currentPage())
	h.deps.Notifier.Success(MsgReviewDeleted)
	return nil
}

// Clear removes every record on the server, then locally
func (h *History) Clear(ctx context.Context) error {
	res := h.client.ClearHistory(ctx)
	if !res.Success {
		h.deps.Notifier.Error(MsgClearFailed)
		return res.Err()
	}

	h.deps.Store.Clear()
	h.mu.Lock()
	h.page = 1
	h.mu.Unlock()
	h.deps.Notifier.Success(MsgHistoryCleared)
	return nil
}

// Export writes the filtered view as CSV
func (h *History) Export(w io.Writer) error {
	return history.WriteCSV(w, h.Filtered())
}
