package sapi

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/soundwave-io/sapi-client/internal/auth"
	inthttp "github.com/soundwave-io/sapi-client/internal/http"
)

const (
	defaultAuthRetryMax = 1
	completionQueueSize = 64
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenSource is an optional extension of Session: a session that can
// also supply a bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config represents client configuration for building a Client.
//
// ClientID is required before any URL construction; every URL the
// client builds carries it as an authentication query parameter.
//
// A Session can be supplied directly, or built from RefreshToken and
// TokenURL (with ClientSecret when the API requires one). A session
// that also implements TokenSource has its token attached as a Bearer
// Authorization header on every request.
type Config struct {
	// ClientID: the process-wide client identifier. Required.
	ClientID string
	// ClientSecret: used with the refresh-token grant when a session is
	// built from RefreshToken/TokenURL.
	ClientSecret string
	// RefreshToken: credential for building a default token session.
	RefreshToken string
	// TokenURL: full token endpoint for the refresh-token grant.
	TokenURL string
	// Session: overrides the default token session. May be nil, in
	// which case 401 responses are forwarded to the caller untouched.
	Session Session

	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug enables verbose HTTP logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// RetryMax: maximum transport-level retries for transient failures
	// (5xx, 429, connection errors). If 0, a default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between transport retries.
	RetryWaitMax time.Duration
	// AuthRetryMax bounds refresh-and-retry cycles per request after a
	// 401. Defaults to 1; further 401s surface an AuthError.
	AuthRetryMax int
	// Metrics: optional collector recording per-endpoint call metrics.
	Metrics *MetricsCollector
}

// Client is the request executor. It owns the HTTP transport, the
// session, and a single dispatcher goroutine through which every
// completion is delivered, so no two completions ever interleave.
type Client struct {
	httpClient *inthttp.Client
	session    Session
	env        *env
	auth       *authInterceptor
	metrics    *MetricsCollector
	logger     Logger

	mu     sync.Mutex
	closed bool
	queue  chan func()
	done   chan struct{}
}

// New creates a new API client.
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.ClientID == "" {
		return nil, ErrClientIDRequired
	}

	session := config.Session
	if session == nil && config.RefreshToken != "" && config.TokenURL != "" {
		session = auth.NewTokenSession(&auth.Config{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RefreshToken: config.RefreshToken,
		})
	}

	var tokens inthttp.TokenProvider
	if source, ok := session.(TokenSource); ok {
		tokens = source
	}

	client := &Client{
		httpClient: inthttp.NewClient(tokens, httpOptions(config)...),
		session:    session,
		env:        &env{clientID: config.ClientID, layouts: &layoutCache{}},
		metrics:    config.Metrics,
		logger:     config.Logger,
		queue:      make(chan func(), completionQueueSize),
		done:       make(chan struct{}),
	}

	authRetryMax := config.AuthRetryMax
	if authRetryMax <= 0 {
		authRetryMax = defaultAuthRetryMax
	}

	client.auth = &authInterceptor{session: session, retryMax: authRetryMax}

	go client.deliverLoop()

	return client, nil
}

// httpOptions builds transport options from config.
func httpOptions(config *Config) []inthttp.Option {
	var opts []inthttp.Option

	if config.Logger != nil {
		opts = append(opts, inthttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		opts = append(opts, inthttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, inthttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := 1 * time.Second
		retryWaitMax := 30 * time.Second

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		opts = append(opts, inthttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return opts
}

// Close stops the completion dispatcher. Completions arriving after
// Close are dropped.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.done)
}

// Session returns the session this client consults on 401 responses.
func (c *Client) Session() Session {
	return c.session
}

// DecodeNode decodes a JSON document into a Node bound to this client's
// context. Numbers are preserved as json.Number.
func (c *Client) DecodeNode(data []byte) (Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return Node{env: c.env}, err
	}

	return newNode(value, c.env), nil
}

// dispatch enqueues a completion onto the single delivery goroutine.
func (c *Client) dispatch(completion func()) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}

	select {
	case c.queue <- completion:
	case <-c.done:
	}
}

// deliverLoop is the designated execution context: completions run here
// one at a time, in arrival order.
func (c *Client) deliverLoop() {
	for {
		select {
		case completion := <-c.queue:
			completion()
		case <-c.done:
			return
		}
	}
}

// loggerAdapter adapts sapi.Logger to the transport's Logger.
type loggerAdapter struct {
	logger Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
