package monitor

import (
	"sync/atomic"
	"time"
)

// Endpoint names a server capability tracked by the registry
type Endpoint string

const (
	EndpointPredict       Endpoint = "predict"
	EndpointHistory       Endpoint = "history"
	EndpointDeleteReview  Endpoint = "delete_review"
	EndpointClearHistory  Endpoint = "clear_history"
	EndpointServerMetrics Endpoint = "metrics"
	EndpointInsights      Endpoint = "insights"
	EndpointModelInfo     Endpoint = "model_info"
)

// Counter is a thread-safe counter metric
type Counter struct {
	value int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Add adds the given value to the counter
func (c *Counter) Add(value int64) {
	atomic.AddInt64(&c.value, value)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset resets the counter to 0
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

// Name returns the counter name
func (c *Counter) Name() string {
	return c.name
}

const maxInt64 = int64(^uint64(0) >> 1)

// Timer is a thread-safe timer for measuring request durations
type Timer struct {
	count     int64
	totalTime int64
	minTime   int64
	maxTime   int64
	name      string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	return &Timer{
		name:    name,
		minTime: maxInt64,
	}
}

// Record records a duration measurement
func (t *Timer) Record(duration time.Duration) {
	nanos := duration.Nanoseconds()

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.totalTime, nanos)

	for {
		current := atomic.LoadInt64(&t.minTime)
		if nanos >= current || atomic.CompareAndSwapInt64(&t.minTime, current, nanos) {
			break
		}
	}

	for {
		current := atomic.LoadInt64(&t.maxTime)
		if nanos <= current || atomic.CompareAndSwapInt64(&t.maxTime, current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return atomic.LoadInt64(&t.count)
}

// MinTime returns the minimum recorded time
func (t *Timer) MinTime() time.Duration {
	minTime := atomic.LoadInt64(&t.minTime)
	if minTime == maxInt64 {
		return 0
	}
	return time.Duration(minTime)
}

// MaxTime returns the maximum recorded time
func (t *Timer) MaxTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.maxTime))
}

// AvgTime returns the average time of all measurements
func (t *Timer) AvgTime() time.Duration {
	count := atomic.LoadInt64(&t.count)
	if count == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&t.totalTime) / count)
}

// Reset resets all timer metrics
func (t *Timer) Reset() {
	atomic.StoreInt64(&t.count, 0)
	atomic.StoreInt64(&t.totalTime, 0)
	atomic.StoreInt64(&t.minTime, maxInt64)
	atomic.StoreInt64(&t.maxTime, 0)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}

// EndpointMetrics holds request metrics for one endpoint
type EndpointMetrics struct {
	Endpoint     Endpoint      `json:"endpoint"`
	Count        int64         `json:"count"`
	SuccessCount int64         `json:"success_count"`
	ErrorCount   int64         `json:"error_count"`
	MinTime      time.Duration `json:"min_time_ns"`
	MaxTime      time.Duration `json:"max_time_ns"`
	AvgTime      time.Duration `json:"avg_time_ns"`
	P95Time      time.Duration `json:"p95_time_ns"`
	LastStatus   int           `json:"last_status,omitempty"`
	LastRequest  time.Time     `json:"last_request"`
}

// ErrorRate returns the share of failed requests in [0,1]
func (m EndpointMetrics) ErrorRate() float64 {
	if m.Count == 0 {
		return 0
	}
	return float64(m.ErrorCount) / float64(m.Count)
}

// Snapshot is a point-in-time copy of all endpoint metrics
type Snapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Endpoints []EndpointMetrics `json:"endpoints"`
}

// Total sums request and error counts across endpoints
func (s Snapshot) Total() (requests, errors int64) {
	for _, e := range s.Endpoints {
		requests += e.Count
		errors += e.ErrorCount
	}
	return requests, errors
}
