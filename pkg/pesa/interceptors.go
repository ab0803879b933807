package pesa

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Request represents an outbound gateway call that can be intercepted.
type Request struct {
	Method    string
	URL       string
	Operation Operation
	Headers   http.Header
	Body      []byte
	Metadata  map[string]interface{}
}

// Response represents a gateway reply that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors. It is safe to add
// interceptors while requests are in flight.
type InterceptorChain struct {
	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	interceptors := append([]RequestInterceptor(nil), c.requestInterceptors...)
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	interceptors := append([]ResponseInterceptor(nil), c.responseInterceptors...)
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests. Headers and bodies are never logged.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("Gateway Request", map[string]interface{}{
			"method":    req.Method,
			"operation": string(req.Operation),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"operation":   string(req.Operation),
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("Gateway Response Error", fields)
		} else {
			logger.Debug("Gateway Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests. The Authorization
// header cannot be overridden.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			if http.CanonicalHeaderKey(key) == "Authorization" {
				continue
			}

			req.Headers.Set(key, value)
		}

		return nil
	}
}

// Metrics are per-operation call statistics.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects gateway call metrics.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(operation string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(operation string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an operation.
func (m *MetricsCollector) GetMetrics(operation Operation) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metrics, ok := m.metrics[string(operation)]; ok {
		cp := *metrics

		return &cp
	}

	return nil
}

func (m *MetricsCollector) record(operation string, latency time.Duration, failed bool) {
	m.mu.Lock()

	metrics, ok := m.metrics[operation]
	if !ok {
		metrics = &Metrics{}
		m.metrics[operation] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if latency > 0 {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(operation, snapshot)
	}
}

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor(_ *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		var latency time.Duration

		if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
			latency = time.Since(startTime)
		}

		collector.record(string(req.Operation), latency, resp.Error != nil || resp.StatusCode >= http.StatusBadRequest)

		return nil
	}
}

// WithMetrics registers both metrics interceptors on the chain.
func (c *InterceptorChain) WithMetrics(collector *MetricsCollector) *InterceptorChain {
	c.AddRequestInterceptor(MetricsRequestInterceptor(collector))
	c.AddResponseInterceptor(MetricsResponseInterceptor(collector))

	return c
}

// WithLogging registers both logging interceptors on the chain.
func (c *InterceptorChain) WithLogging(logger Logger) *InterceptorChain {
	c.AddRequestInterceptor(LoggingInterceptor(logger))
	c.AddResponseInterceptor(LoggingResponseInterceptor(logger))

	return c
}
