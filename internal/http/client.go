// Package http implements the HTTP core shared by every resource
// client: retries, session cookie and CSRF token handling, response
// caching, interceptors, and error mapping.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/bloxkit/rbx-client/internal/auth"
	"github.com/bloxkit/rbx-client/internal/constants"
	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// Request describes an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a completed API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP core bound to one API base URL.
type Client struct {
	baseURL      string
	session      auth.Session
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       roblox.Logger
	debug        bool
	cache        *roblox.CacheManager
	interceptors *roblox.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger roblox.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes transport-level retries. Zero values keep the
// defaults set by NewClient.
func WithRetryConfig(retryMax int, waitMin, waitMax, timeout time.Duration) Option {
	return func(c *Client) {
		if retryMax > 0 {
			c.httpClient.RetryMax = retryMax
		}

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}

		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithCacheManager enables response caching.
func WithCacheManager(cache *roblox.CacheManager) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInterceptors attaches an interceptor chain.
func WithInterceptors(chain *roblox.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a Client for the API at baseURL. Requests carry
// the session's cookie and CSRF token; a CSRF challenge is answered
// once per request by adopting the token from the challenge response.
func NewClient(baseURL string, session auth.Session, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		session:    session,
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// Do executes the request. Non-2xx responses are returned alongside a
// *roblox.ResponseError carrying the platform error envelope.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, roblox.ErrNilRequest
	}

	fullURL := c.buildURL(req.Path, req.Query)

	var bodyBytes []byte

	if req.Body != nil {
		var err error

		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	cacheable := c.cache != nil && c.cache.Policy().ShouldCache(req.Method, req.Path)

	cacheKey := ""
	if cacheable {
		cacheKey = roblox.CacheKey(req.Method, c.baseURL, req.Path, req.Query)

		if cached, ok := c.cache.GetResponse(ctx, cacheKey); ok {
			c.logDebug("cache hit", map[string]interface{}{
				"method": req.Method,
				"url":    fullURL,
			})

			return &Response{StatusCode: cached.StatusCode, Body: cached.Body}, nil
		}
	}

	info := &roblox.RequestInfo{
		Method:  req.Method,
		URL:     fullURL,
		Headers: map[string]string{},
		Body:    bodyBytes,
	}

	for k, v := range req.Headers {
		info.Headers[k] = v
	}

	if c.interceptors != nil {
		if err := c.interceptors.ProcessRequest(ctx, info); err != nil {
			return nil, err
		}
	}

	start := time.Now()

	resp, err := c.send(ctx, req.Method, fullURL, bodyBytes, info.Headers, true)

	if c.interceptors != nil {
		respInfo := &roblox.ResponseInfo{
			Request:  info,
			Duration: time.Since(start),
			Err:      err,
		}
		if resp != nil {
			respInfo.StatusCode = resp.StatusCode
			respInfo.Body = resp.Body
		}

		if procErr := c.interceptors.ProcessResponse(ctx, respInfo); procErr != nil && err == nil {
			return resp, procErr
		}
	}

	if err != nil {
		return resp, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, c.responseError(resp)
	}

	if cacheable {
		cached := &roblox.CachedResponse{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			ETag:       resp.Headers.Get("Etag"),
		}

		if cacheErr := c.cache.SetResponse(ctx, cacheKey, req.Path, cached); cacheErr != nil {
			c.logDebug("cache store failed", map[string]interface{}{
				"error": cacheErr.Error(),
			})
		}
	}

	return resp, nil
}

// send performs one HTTP exchange. On a CSRF challenge (403 carrying
// a fresh token header) the token is adopted and the request is
// retried once.
func (c *Client) send(ctx context.Context, method, fullURL string, body []byte, headers map[string]string, allowCSRFRetry bool) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if cookie := c.session.Cookie(); cookie != "" {
		httpReq.AddCookie(&http.Cookie{Name: constants.SecurityCookieName, Value: cookie})
	}

	if token := c.session.CSRFToken(); token != "" {
		httpReq.Header.Set(constants.CSRFTokenHeader, token)
	}

	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	c.logDebug("HTTP request", map[string]interface{}{
		"method": method,
		"url":    fullURL,
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logDebug("HTTP response", map[string]interface{}{
		"method": method,
		"url":    fullURL,
		"status": httpResp.StatusCode,
	})

	if allowCSRFRetry && httpResp.StatusCode == http.StatusForbidden {
		if token := httpResp.Header.Get(constants.CSRFTokenHeader); token != "" {
			c.session.SetCSRFToken(token)

			c.logDebug("CSRF token rotated, retrying request", map[string]interface{}{
				"method": method,
				"url":    fullURL,
			})

			return c.send(ctx, method, fullURL, body, headers, false)
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// responseError maps a non-2xx response to a *roblox.ResponseError,
// preserving the platform error envelope when present.
func (c *Client) responseError(resp *Response) error {
	respErr := &roblox.ResponseError{StatusCode: resp.StatusCode}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, respErr); err != nil || len(respErr.Errors) == 0 {
			respErr.Errors = []roblox.APIError{{
				Code:    resp.StatusCode,
				Message: strings.TrimSpace(string(resp.Body)),
			}}
		}
	}

	return respErr
}

// Get performs a GET and decodes the JSON response into result when
// result is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})

	return decode(resp, err, result)
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})

	return decode(resp, err, result)
}

// Patch performs a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})

	return decode(resp, err, result)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})

	return decode(resp, err, result)
}

// GetRaw performs a GET and returns the raw response body, for
// non-JSON payloads such as asset downloads.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func decode(resp *Response, err error, result interface{}) error {
	if err != nil {
		return err
	}

	if result == nil || len(resp.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
