package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/monitor"
)

// Server paths. The second element of an alias list is tried only when the
// first answers 404.
const (
	PathPredict      = "/predict"
	PathHistory      = "/api/history"
	PathHistoryAlias = "/history"
	PathClearHistory = "/api/clear_history"
	PathMetrics      = "/api/metrics"
	PathInsights     = "/api/insights"
	PathInsightsData = "/insights/data"
	PathModelInfo    = "/api/model_info"
)

const maxBodySize = 10 << 20

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit is the sustained requests per second, 0 disables pacing
	RateLimit float64
	Burst     int

	HTTPClient *http.Client
	Metrics    *monitor.Registry
	Logger     *logger.Logger
}

// Client talks to the sentiment server. It holds no state besides its
// transport, limiter and metrics, and is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	metrics *monitor.Registry
	logger  *logger.Logger
	now     func() time.Time
}

// New creates a client for the server at opts.BaseURL
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = monitor.NewRegistry()
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		metrics: metrics,
		logger:  opts.Logger.WithComponent("api"),
		now:     time.Now,
	}, nil
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Registry returns the per-endpoint request metrics
func (c *Client) Registry() *monitor.Registry {
	return c.metrics
}

// Analyze submits one review for classification
func (c *Client) Analyze(ctx context.Context, req common.Request) Result[AnalysisResponse] {
	if err := req.Validate(); err != nil {
		return fail[AnalysisResponse](NewValidationError(err.Error()))
	}

	form := url.Values{}
	form.Set("review_text", req.Text)
	form.Set("category", req.Category)
	form.Set("rating", strconv.Itoa(req.Rating))

	var wire predictWire
	if err := c.call(ctx, monitor.EndpointPredict, http.MethodPost, []string{PathPredict}, form, &wire); err != nil {
		return fail[AnalysisResponse](err)
	}

	raw := string(wire.SentimentText)
	if raw == "" {
		raw = string(wire.Sentiment)
	}
	sentiment, ok := common.ParseSentiment(raw)
	if !ok {
		return fail[AnalysisResponse](NewApplicationError(PathPredict, fmt.Sprintf("unrecognized sentiment %q", raw)))
	}

	resp := AnalysisResponse{
		ID:         wire.ID,
		Sentiment:  sentiment,
		Confidence: wire.Confidence,
		Text:       req.Text,
		Category:   req.Category,
		Rating:     req.Rating,
		Timestamp:  c.now(),
	}
	if wire.Review.Text != "" {
		resp.Text = wire.Review.Text
	}
	if wire.Review.Category != "" {
		resp.Category = wire.Review.Category
	}
	if wire.Review.Rating != 0 {
		resp.Rating = wire.Review.Rating
	}
	if wire.Timestamp != "" {
		if ts, err := common.ParseTimestamp(wire.Timestamp); err == nil {
			resp.Timestamp = ts
		}
	}
	return succeed(PathPredict, resp)
}

// History fetches the server-held history, newest first
func (c *Client) History(ctx context.Context) Result[[]common.Record] {
	var wire historyWire
	if err := c.call(ctx, monitor.EndpointHistory, http.MethodGet, []string{PathHistory, PathHistoryAlias}, nil, &wire); err != nil {
		return fail[[]common.Record](err)
	}
	records := wire.records()
	undated := 0
	for _, r := range records {
		if r.Timestamp.IsZero() {
			undated++
		}
	}
	if undated > 0 {
		c.logger.Debug("%d of %d history records have no readable date", undated, len(records))
	}
	return succeed(PathHistory, records)
}

// DeleteReview removes one record on the server
func (c *Client) DeleteReview(ctx context.Context, id common.ID) Result[Ack] {
	if strings.TrimSpace(string(id)) == "" {
		return fail[Ack](NewValidationError("review id is empty"))
	}
	escaped := url.PathEscape(string(id))
	paths := []string{PathHistory + "/" + escaped, PathHistoryAlias + "/" + escaped}

	var ack Ack
	if err := c.call(ctx, monitor.EndpointDeleteReview, http.MethodDelete, paths, nil, &ack); err != nil {
		return fail[Ack](err)
	}
	return succeed(paths[0], ack)
}

// ClearHistory removes every record on the server
func (c *Client) ClearHistory(ctx context.Context) Result[Ack] {
	var ack Ack
	if err := c.call(ctx, monitor.EndpointClearHistory, http.MethodPost, []string{PathClearHistory}, nil, &ack); err != nil {
		return fail[Ack](err)
	}
	return succeed(PathClearHistory, ack)
}

// Metrics fetches the server's aggregate counters
func (c *Client) Metrics(ctx context.Context) Result[Metrics] {
	var m Metrics
	if err := c.call(ctx, monitor.EndpointServerMetrics, http.MethodGet, []string{PathMetrics}, nil, &m); err != nil {
		return fail[Metrics](err)
	}
	return succeed(PathMetrics, m)
}

// Insights fetches the trend and category series computed by the server
func (c *Client) Insights(ctx context.Context) Result[RemoteInsights] {
	var wire insightsWire
	if err := c.call(ctx, monitor.EndpointInsights, http.MethodGet, []string{PathInsights, PathInsightsData}, nil, &wire); err != nil {
		return fail[RemoteInsights](err)
	}
	return succeed(PathInsights, wire.Insights)
}

// ModelInfo fetches model metadata
func (c *Client) ModelInfo(ctx context.Context) Result[ModelInfo] {
	info := ModelInfo{}
	if err := c.call(ctx, monitor.EndpointModelInfo, http.MethodGet, []string{PathModelInfo}, nil, &info); err != nil {
		return fail[ModelInfo](err)
	}
	delete(info, "success")
	return succeed(PathModelInfo, info)
}

// Ping checks that the server answers
func (c *Client) Ping(ctx context.Context) error {
	return c.ModelInfo(ctx).Err()
}

// call performs one request, falling through to the next path on 404, and
// decodes the body into out. It records one metrics observation per call.
func (c *Client) call(ctx context.Context, endpoint monitor.Endpoint, method string, paths []string, form url.Values, out any) *Error {
	start := time.Now()
	status := 0
	var apiErr *Error

	for i, path := range paths {
		var body []byte
		body, status, apiErr = c.send(ctx, method, path, form)
		if apiErr != nil {
			break
		}
		if status == http.StatusNotFound && i < len(paths)-1 {
			c.logger.Debug("%s %s returned 404, trying %s", method, path, paths[i+1])
			continue
		}
		if status < 200 || status >= 300 {
			apiErr = NewStatusError(path, status)
			break
		}
		apiErr = decode(path, body, out)
		break
	}

	c.metrics.Observe(endpoint, time.Since(start), status, apiErr != nil)
	if apiErr != nil {
		c.logger.DebugWithFields("request failed", []logger.Field{
			logger.F("endpoint", endpoint),
			logger.F("kind", apiErr.Kind),
			logger.F("status", status),
			logger.Error(apiErr),
		})
	}
	return apiErr
}

func (c *Client) send(ctx context.Context, method, path string, form url.Values) ([]byte, int, *Error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, NewNetworkError(path, err)
		}
	}

	target := c.baseURL.JoinPath(path)

	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, 0, NewNetworkError(path, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("%s %s", method, target.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, NewNetworkError(path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, NewNetworkError(path, fmt.Errorf("failed to read response: %w", err))
	}
	return body, resp.StatusCode, nil
}

// decode checks the success flag and unmarshals the payload
func decode(path string, body []byte, out any) *Error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return NewNetworkError(path, fmt.Errorf("invalid response body: %w", err))
	}
	if env.failed() {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		return NewApplicationError(path, message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewNetworkError(path, fmt.Errorf("invalid response body: %w", err))
	}
	return nil
}
