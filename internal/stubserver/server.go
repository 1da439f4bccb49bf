// Package stubserver serves the sentiment server endpoints from memory so
// the dashboard can run and be tested without the real model.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/logger"
)

// Config configures a stub server
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// Seed preloads the sample history
	Seed bool

	Logger *logger.Logger
	Now    func() time.Time
}

// Server is an in-memory sentiment server
type Server struct {
	router *chi.Mux
	logger *logger.Logger
	server *http.Server
	config Config

	mu      sync.Mutex
	reviews []common.Record // oldest first
	nextID  int
}

// New creates a stub server. It does not listen until Start.
func New(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		logger: cfg.Logger.WithComponent("stub"),
		config: cfg,
		nextID: 1,
	}
	if cfg.Seed {
		s.seed()
	}

	router := chi.NewRouter()
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)

	router.Post("/predict", s.predict)
	router.Route("/api", func(r chi.Router) {
		r.Get("/history", s.listHistory)
		r.Delete("/history/{id}", s.deleteReview)
		r.Post("/clear_history", s.clearHistory)
		r.Get("/metrics", s.serverMetrics)
		r.Get("/insights", s.insightsData)
		r.Get("/model_info", s.modelInfo)
	})

	// legacy paths
	router.Get("/history", s.listReviews)
	router.Delete("/history/{id}", s.deleteReview)
	router.Get("/insights/data", s.insightsData)

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for httptest servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("listening on %s", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		err := s.server.Shutdown(shutdownCtx)
		if err != nil {
			s.logger.Error("graceful shutdown failed: %v", err)
			err = s.server.Close()
		}
		return err
	}
}

// Len returns the number of stored reviews
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}

func (s *Server) seed() {
	samples := history.SampleRecords(s.config.Now())
	for i := len(samples) - 1; i >= 0; i-- {
		r := samples[i]
		r.ID = common.ID(strconv.Itoa(s.nextID))
		s.nextID++
		s.reviews = append(s.reviews, r)
	}
}

type predictResponse struct {
	Success       bool             `json:"success"`
	ID            common.ID        `json:"id"`
	Sentiment     common.Sentiment `json:"sentiment"`
	SentimentText common.Sentiment `json:"sentiment_text"`
	Confidence    float64          `json:"confidence"`
	Timestamp     string           `json:"timestamp"`
	Review        reviewInput      `json:"review"`
}

type reviewInput struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Rating   int    `json:"rating"`
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("invalid form: "+err.Error()))
		return
	}

	in := reviewInput{
		Text:     strings.TrimSpace(r.PostFormValue("review_text")),
		Category: r.PostFormValue("category"),
		Rating:   common.MaxRating,
	}
	if in.Text == "" {
		writeJSON(w, http.StatusOK, failure("Review text is required"))
		return
	}
	if in.Category == "" {
		in.Category = common.DefaultCategory
	}
	if raw := r.PostFormValue("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < common.MinRating || rating > common.MaxRating {
			writeJSON(w, http.StatusOK, failure("Rating must be between 1 and 5"))
			return
		}
		in.Rating = rating
	}

	sentiment, confidence := classify(in.Text)
	now := s.config.Now()

	s.mu.Lock()
	record := common.Record{
		ID:         common.ID(strconv.Itoa(s.nextID)),
		Text:       in.Text,
		Category:   in.Category,
		Rating:     in.Rating,
		Sentiment:  sentiment,
		Confidence: confidence,
		Timestamp:  now,
	}
	s.nextID++
	s.reviews = append(s.reviews, record)
	if len(s.reviews) > history.DefaultCapacity {
		s.reviews = s.reviews[len(s.reviews)-history.DefaultCapacity:]
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, predictResponse{
		Success:       true,
		ID:            record.ID,
		Sentiment:     sentiment,
		SentimentText: sentiment,
		Confidence:    confidence,
		Timestamp:     now.Format(time.RFC3339),
		Review:        in,
	})
}

// snapshot returns the reviews oldest first
func (s *Server) snapshot() []common.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.Record, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func newestFirst(records []common.Record) []common.Record {
	out := make([]common.Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

func (s *Server) listHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": newestFirst(s.snapshot()),
	})
}

// listReviews serves the older append-ordered shape
func (s *Server) listReviews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": s.snapshot(),
	})
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	id := common.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	found := false
	for i, review := range s.reviews {
		if review.ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusOK, failure("Review not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Review deleted"})
}

func (s *Server) clearHistory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.reviews = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "History cleared"})
}

func (s *Server) serverMetrics(w http.ResponseWriter, _ *http.Request) {
	agg := insights.Summarize(s.snapshot(), insights.DefaultGranularity)

	categories := make(map[string]int, len(agg.Categories))
	for _, c := range agg.Categories {
		categories[c.Label] = c.Count
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_reviews":    agg.Total,
		"positive_percent": agg.PositivePercent,
		"negative_percent": agg.NegativePercent,
		"sentiments": map[string]int{
			string(common.SentimentPositive): agg.Positive,
			string(common.SentimentNegative): agg.Negative,
		},
		"categories": categories,
	})
}

type series struct {
	Labels   []string  `json:"labels"`
	Positive []float64 `json:"positive"`
	Negative []float64 `json:"negative"`
}

func (s *Server) insightsData(w http.ResponseWriter, _ *http.Request) {
	agg := insights.Summarize(s.snapshot(), insights.GranularityMonth)

	categories := series{Labels: []string{}, Positive: []float64{}, Negative: []float64{}}
	for _, c := range agg.Categories {
		categories.Labels = append(categories.Labels, c.Label)
		categories.Positive = append(categories.Positive, c.PositivePercent())
		categories.Negative = append(categories.Negative, 100-c.PositivePercent())
	}
	trend := series{Labels: agg.Trend.Labels, Positive: agg.Trend.Positive, Negative: agg.Trend.Negative}
	if trend.Labels == nil {
		trend = series{Labels: []string{}, Positive: []float64{}, Negative: []float64{}}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"insights": map[string]any{
			"trend_data":    trend,
			"category_data": categories,
		},
	})
}

func (s *Server) modelInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"model_type":     "keyword_stub",
		"version":        "1.0",
		"positive_words": len(positiveWords),
		"negative_words": len(negativeWords),
		"reviews_stored": s.Len(),
	})
}

func failure(message string) map[string]any {
	return map[string]any{"success": false, "error": message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
