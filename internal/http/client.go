package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultUserAgent    = "sapi-client/1.0"
	defaultRetryMax     = 3
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 30 * time.Second
)

// Logger interface for HTTP request/response logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenProvider supplies a bearer token for outgoing requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Request describes one HTTP exchange. URL must be absolute; Query is
// merged into its query string, Body is sent URL-encoded.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Body    url.Values
	Headers map[string]string
}

// Response is the raw outcome of an exchange. The status code is not
// interpreted here; callers decide what non-2xx codes mean.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes HTTP requests with transient-failure retry.
type Client struct {
	retryClient  *retryablehttp.Client
	tokens       TokenProvider
	logger       Logger
	userAgent    string
	debug        bool
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for this client.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging when a logger is set.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes retry behavior for transient failures (5xx,
// 429, connection errors).
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// NewClient creates a new HTTP client. tokens may be nil for
// unauthenticated requests.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	client := &Client{
		tokens:       tokens,
		userAgent:    defaultUserAgent,
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.Logger = nil

	// Hand the final response back after retries are exhausted instead
	// of swallowing it; status interpretation belongs to the caller.
	retryClient.ErrorHandler = func(resp *http.Response, err error, _ int) (*http.Response, error) {
		if resp != nil {
			return resp, nil
		}

		return nil, err
	}

	client.retryClient = retryClient

	return client
}

// Do executes the request and reads the full response body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := buildURL(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		body = strings.NewReader(req.Body.Encode())
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    redactURL(target),
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         redactURL(target),
			"status_code": httpResp.StatusCode,
			"body_length": len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: rawURL, Query: query})
}

// Post executes a POST request with a URL-encoded body.
func (c *Client) Post(ctx context.Context, rawURL string, body url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: rawURL, Body: body})
}

// Put executes a PUT request with a URL-encoded body.
func (c *Client) Put(ctx context.Context, rawURL string, body url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: rawURL, Body: body})
}

// Delete executes a DELETE request with a URL-encoded body.
func (c *Client) Delete(ctx context.Context, rawURL string, body url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: rawURL, Body: body})
}

// buildURL merges req.Query into the request URL's query string.
func buildURL(req *Request) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(req.Query) > 0 {
		query := u.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// redactURL hides credential-bearing query values in log output.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := u.Query()
	for _, key := range []string{"client_id", "client_secret", "oauth_token", "access_token"} {
		if query.Has(key) {
			query.Set(key, "REDACTED")
		}
	}

	u.RawQuery = query.Encode()

	return u.String()
}
