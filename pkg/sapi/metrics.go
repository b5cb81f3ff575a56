package sapi

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	inthttp "github.com/soundwave-io/sapi-client/internal/http"
)

// Metrics aggregates the calls made to one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects per-endpoint call metrics. Endpoints are
// keyed by "METHOD host/path"; query strings are stripped so credential
// parameters never appear in keys.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback invoked after each recorded call, with a
// snapshot of the endpoint's metrics.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or
// false if the endpoint has not been called.
func (m *MetricsCollector) GetMetrics(endpoint string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return Metrics{}, false
	}

	return *metrics, true
}

func (m *MetricsCollector) recordCall(endpoint string, failed bool, latency time.Duration) {
	m.mu.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.TotalLatency += latency
	metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	metrics.LastRequestTime = time.Now()

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange

	m.mu.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}

// record is called by the executor after each transfer attempt.
func (c *Client) record(method, rawURL string, resp *inthttp.Response, err error, latency time.Duration) {
	if c.metrics == nil {
		return
	}

	failed := err != nil || (resp != nil && resp.StatusCode >= 400)
	c.metrics.recordCall(endpointKey(method, rawURL), failed, latency)
}

func endpointKey(method, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return method + " " + rawURL
	}

	return fmt.Sprintf("%s %s%s", method, u.Host, u.Path)
}
