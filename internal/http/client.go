package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// Client is the gateway transport. It sends exactly one attempt per call
// and returns every HTTP response, whatever its status, to the caller.
type Client struct {
	httpClient   *retryablehttp.Client
	base         *http.Client
	timeout      time.Duration
	userAgent    string
	logger       pesa.Logger
	debug        bool
	interceptors *pesa.InterceptorChain
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger pesa.Logger) Option {
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

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout bounds every call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient supplies the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.base = httpClient
	}
}

// WithInterceptors runs chain around every call.
func WithInterceptors(chain *pesa.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new transport.
func NewClient(opts ...Option) *Client {
	client := &Client{
		timeout:   constants.DefaultHTTPTimeout,
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	base := &http.Client{}
	if client.base != nil {
		cp := *client.base
		base = &cp
	}

	base.Timeout = client.timeout

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	if client.logger != nil && client.debug {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	client.httpClient = retryClient

	return client
}

// noRetry never schedules another attempt; a context error is surfaced as is.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// Request represents an HTTP request.
type Request struct {
	Method    string
	URL       string
	Operation pesa.Operation
	Headers   map[string]string
	Body      []byte
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do sends the request. A non-nil error means no HTTP response was received.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	headers := make(http.Header)
	headers.Set(constants.HeaderUserAgent, c.userAgent)

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	intercepted := &pesa.Request{
		Method:    req.Method,
		URL:       req.URL,
		Operation: req.Operation,
		Headers:   headers,
		Body:      req.Body,
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	var body interface{}
	if intercepted.Body != nil {
		body = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, intercepted.Method, intercepted.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":    intercepted.Method,
			"url":       intercepted.URL,
			"operation": string(intercepted.Operation),
			"headers":   maskHeaders(intercepted.Headers),
		})
	}

	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// The passthrough error handler can hand back the response with the error.
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &pesa.Response{Error: err})

		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &pesa.Response{StatusCode: resp.StatusCode, Error: err})

		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   resp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(respBody),
		})
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header,
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &pesa.Response{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url, Headers: headers})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: url, Body: body, Headers: headers})
}

func maskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))

	for key := range headers {
		if key == constants.HeaderAuthorization {
			masked[key] = constants.MaskedValue

			continue
		}

		masked[key] = headers.Get(key)
	}

	return masked
}
