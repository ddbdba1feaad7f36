package roblox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// RequestInfo is the interceptor view of an outgoing request.
type RequestInfo struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// ResponseInfo is the interceptor view of a completed request.
type ResponseInfo struct {
	Request    *RequestInfo
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Err        error
}

// RequestInterceptor runs before a request is sent. Returning an
// error aborts the request.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *RequestInfo) error
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, req *RequestInfo) error

// InterceptRequest implements RequestInterceptor.
func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, req *RequestInfo) error {
	return f(ctx, req)
}

// ResponseInterceptor runs after a request completes.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, resp *ResponseInfo) error
}

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(ctx context.Context, resp *ResponseInfo) error

// InterceptResponse implements ResponseInterceptor.
func (f ResponseInterceptorFunc) InterceptResponse(ctx context.Context, resp *ResponseInfo) error {
	return f(ctx, resp)
}

// InterceptorChain holds ordered request and response interceptors.
type InterceptorChain struct {
	mu       sync.RWMutex
	request  []RequestInterceptor
	response []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.request = append(c.request, interceptor)
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.response = append(c.response, interceptor)
}

// ProcessRequest runs every request interceptor in order, stopping at
// the first error.
func (c *InterceptorChain) ProcessRequest(ctx context.Context, req *RequestInfo) error {
	c.mu.RLock()
	interceptors := c.request
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		if err := interceptor.InterceptRequest(ctx, req); err != nil {
			return fmt.Errorf("request interceptor: %w", err)
		}
	}

	return nil
}

// ProcessResponse runs every response interceptor in order, stopping
// at the first error.
func (c *InterceptorChain) ProcessResponse(ctx context.Context, resp *ResponseInfo) error {
	c.mu.RLock()
	interceptors := c.response
	c.mu.RUnlock()

	for _, interceptor := range interceptors {
		if err := interceptor.InterceptResponse(ctx, resp); err != nil {
			return fmt.Errorf("response interceptor: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests and responses on a Logger.
type LoggingInterceptor struct {
	logger Logger
}

// NewLoggingInterceptor creates a LoggingInterceptor.
func NewLoggingInterceptor(logger Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

// InterceptRequest implements RequestInterceptor.
func (i *LoggingInterceptor) InterceptRequest(_ context.Context, req *RequestInfo) error {
	if i.logger != nil {
		i.logger.Debug("API request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
	}

	return nil
}

// InterceptResponse implements ResponseInterceptor.
func (i *LoggingInterceptor) InterceptResponse(_ context.Context, resp *ResponseInfo) error {
	if i.logger == nil {
		return nil
	}

	fields := map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": resp.Duration.Milliseconds(),
	}

	if resp.Request != nil {
		fields["method"] = resp.Request.Method
		fields["url"] = resp.Request.URL
	}

	if resp.Err != nil {
		fields["error"] = resp.Err.Error()
		i.logger.Warn("API response", fields)

		return nil
	}

	i.logger.Debug("API response", fields)

	return nil
}

// HeaderInterceptor adds fixed headers to every request.
type HeaderInterceptor struct {
	headers map[string]string
}

// NewHeaderInterceptor creates a HeaderInterceptor.
func NewHeaderInterceptor(headers map[string]string) *HeaderInterceptor {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}

	return &HeaderInterceptor{headers: copied}
}

// InterceptRequest implements RequestInterceptor.
func (i *HeaderInterceptor) InterceptRequest(_ context.Context, req *RequestInfo) error {
	if req.Headers == nil {
		req.Headers = make(map[string]string, len(i.headers))
	}

	for k, v := range i.headers {
		req.Headers[k] = v
	}

	return nil
}

// RateLimitInterceptor throttles outgoing requests with a token
// bucket, waiting for a token before each request.
type RateLimitInterceptor struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64
	lastRefill time.Time
}

// NewRateLimitInterceptor creates a bucket holding capacity tokens,
// refilled at ratePerSecond.
func NewRateLimitInterceptor(capacity int, ratePerSecond float64) *RateLimitInterceptor {
	return &RateLimitInterceptor{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: ratePerSecond,
		lastRefill: time.Now(),
	}
}

func (i *RateLimitInterceptor) take() (bool, time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	i.tokens += now.Sub(i.lastRefill).Seconds() * i.refillRate
	i.lastRefill = now

	if i.tokens > i.capacity {
		i.tokens = i.capacity
	}

	if i.tokens >= 1 {
		i.tokens--

		return true, 0
	}

	wait := time.Duration((1 - i.tokens) / i.refillRate * float64(time.Second))

	return false, wait
}

// InterceptRequest implements RequestInterceptor, blocking until a
// token is available or the context is done.
func (i *RateLimitInterceptor) InterceptRequest(ctx context.Context, _ *RequestInfo) error {
	for {
		ok, wait := i.take()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("waiting for rate limit token: %w", ctx.Err())
		}
	}
}

// RequestMetrics is a snapshot of MetricsInterceptor counters.
type RequestMetrics struct {
	Total         int64
	Errors        int64
	StatusClasses map[int]int64
	TotalDuration time.Duration
}

// AverageDuration returns the mean request duration.
func (m RequestMetrics) AverageDuration() time.Duration {
	if m.Total == 0 {
		return 0
	}

	return m.TotalDuration / time.Duration(m.Total)
}

// MetricsInterceptor counts requests, errors, and status classes.
type MetricsInterceptor struct {
	mu            sync.Mutex
	total         int64
	errors        int64
	statusClasses map[int]int64
	totalDuration time.Duration
}

// NewMetricsInterceptor creates a MetricsInterceptor.
func NewMetricsInterceptor() *MetricsInterceptor {
	return &MetricsInterceptor{
		statusClasses: make(map[int]int64),
	}
}

// InterceptResponse implements ResponseInterceptor.
func (i *MetricsInterceptor) InterceptResponse(_ context.Context, resp *ResponseInfo) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.total++
	i.totalDuration += resp.Duration

	if resp.Err != nil {
		i.errors++
	}

	if resp.StatusCode > 0 {
		i.statusClasses[resp.StatusCode/100]++
	}

	return nil
}

// Metrics returns a snapshot of the counters.
func (i *MetricsInterceptor) Metrics() RequestMetrics {
	i.mu.Lock()
	defer i.mu.Unlock()

	classes := make(map[int]int64, len(i.statusClasses))
	for class, count := range i.statusClasses {
		classes[class] = count
	}

	return RequestMetrics{
		Total:         i.total,
		Errors:        i.errors,
		StatusClasses: classes,
		TotalDuration: i.totalDuration,
	}
}

// ErrCircuitOpen indicates the circuit breaker is rejecting requests
// after repeated failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerInterceptor trips after consecutive failures and
// rejects requests until a cooldown passes, then probes with a
// half-open state.
type CircuitBreakerInterceptor struct {
	mu               sync.Mutex
	state            string
	failures         int
	successes        int
	threshold        int
	successThreshold int
	timeout          time.Duration
	openedAt         time.Time
}

// NewCircuitBreakerInterceptor creates a breaker that opens after
// threshold consecutive failures and stays open for timeout.
func NewCircuitBreakerInterceptor(threshold int, timeout time.Duration) *CircuitBreakerInterceptor {
	if threshold <= 0 {
		threshold = constants.CircuitBreakerThreshold
	}

	if timeout <= 0 {
		timeout = constants.CircuitBreakerTimeout
	}

	return &CircuitBreakerInterceptor{
		threshold:        threshold,
		successThreshold: constants.CircuitBreakerSuccessThreshold,
		timeout:          timeout,
	}
}

// State returns "closed", "open", or "half-open".
func (i *CircuitBreakerInterceptor) State() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == "" {
		return "closed"
	}

	return i.state
}

// InterceptRequest implements RequestInterceptor.
func (i *CircuitBreakerInterceptor) InterceptRequest(_ context.Context, _ *RequestInfo) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == constants.StatusOpen {
		if time.Since(i.openedAt) < i.timeout {
			return ErrCircuitOpen
		}

		i.state = constants.StatusHalfOpen
		i.successes = 0
	}

	return nil
}

// InterceptResponse implements ResponseInterceptor.
func (i *CircuitBreakerInterceptor) InterceptResponse(_ context.Context, resp *ResponseInfo) error {
	failed := resp.Err != nil || resp.StatusCode >= 500

	i.mu.Lock()
	defer i.mu.Unlock()

	if failed {
		i.failures++
		i.successes = 0

		if i.state == constants.StatusHalfOpen || i.failures >= i.threshold {
			i.state = constants.StatusOpen
			i.openedAt = time.Now()
			i.failures = 0
		}

		return nil
	}

	i.failures = 0

	if i.state == constants.StatusHalfOpen {
		i.successes++
		if i.successes >= i.successThreshold {
			i.state = ""
		}
	}

	return nil
}
