package monitor

import (
	"sort"
	"sync"
	"time"
)

// latencyWindow bounds the samples kept per endpoint for percentiles
const latencyWindow = 256

type endpointStats struct {
	requests *Counter
	errors   *Counter
	timer    *Timer
	samples  []float64
	next     int
	status   int
	last     time.Time
}

// Registry records per-endpoint request counts, errors and latency.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[Endpoint]*endpointStats
	now       func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[Endpoint]*endpointStats),
		now:       time.Now,
	}
}

func (r *Registry) stats(endpoint Endpoint) *endpointStats {
	r.mu.RLock()
	s, ok := r.endpoints[endpoint]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.endpoints[endpoint]; ok {
		return s
	}
	s = &endpointStats{
		requests: NewCounter(string(endpoint) + ".requests"),
		errors:   NewCounter(string(endpoint) + ".errors"),
		timer:    NewTimer(string(endpoint) + ".latency"),
		samples:  make([]float64, 0, latencyWindow),
	}
	r.endpoints[endpoint] = s
	return s
}

// Observe records one finished request. status is the HTTP status, 0 when
// the request never reached the server.
func (r *Registry) Observe(endpoint Endpoint, duration time.Duration, status int, failed bool) {
	s := r.stats(endpoint)
	s.requests.Inc()
	if failed {
		s.errors.Inc()
	}
	s.timer.Record(duration)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(s.samples) < latencyWindow {
		s.samples = append(s.samples, float64(duration))
	} else {
		s.samples[s.next] = float64(duration)
		s.next = (s.next + 1) % latencyWindow
	}
	s.status = status
	s.last = r.now()
}

// Track times fn and records its outcome
func (r *Registry) Track(endpoint Endpoint, fn func() (status int, err error)) error {
	start := time.Now()
	status, err := fn()
	r.Observe(endpoint, time.Since(start), status, err != nil)
	return err
}

// Endpoint returns the metrics of a single endpoint
func (r *Registry) Endpoint(endpoint Endpoint) EndpointMetrics {
	r.mu.RLock()
	s, ok := r.endpoints[endpoint]
	r.mu.RUnlock()
	if !ok {
		return EndpointMetrics{Endpoint: endpoint}
	}
	return r.collect(endpoint, s)
}

// Snapshot returns all endpoint metrics sorted by endpoint name
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	names := make([]Endpoint, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	snap := Snapshot{Timestamp: r.now(), Endpoints: make([]EndpointMetrics, 0, len(names))}
	for _, name := range names {
		snap.Endpoints = append(snap.Endpoints, r.Endpoint(name))
	}
	return snap
}

// Reset clears all recorded metrics
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints = make(map[Endpoint]*endpointStats)
}

func (r *Registry) collect(endpoint Endpoint, s *endpointStats) EndpointMetrics {
	r.mu.RLock()
	sorted := make([]float64, len(s.samples))
	copy(sorted, s.samples)
	status, last := s.status, s.last
	r.mu.RUnlock()
	sort.Float64s(sorted)

	requests := s.requests.Get()
	errors := s.errors.Get()
	return EndpointMetrics{
		Endpoint:     endpoint,
		Count:        requests,
		SuccessCount: requests - errors,
		ErrorCount:   errors,
		MinTime:      s.timer.MinTime(),
		MaxTime:      s.timer.MaxTime(),
		AvgTime:      s.timer.AvgTime(),
		P95Time:      time.Duration(percentile(sorted, 0.95)),
		LastStatus:   status,
		LastRequest:  last,
	}
}

// percentile calculates the pth percentile of sorted values
func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}

	index := p * float64(len(sortedValues)-1)
	lowerIdx := int(index)
	upperIdx := lowerIdx + 1

	if upperIdx >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}

	weight := index - float64(lowerIdx)
	return sortedValues[lowerIdx]*(1-weight) + sortedValues[upperIdx]*weight
}
