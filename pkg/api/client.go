package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/buildinfo"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/httputil"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/observability"
)

// DefaultBaseURL is the platform endpoint used when none is configured.
const DefaultBaseURL = "http://localhost:8787"

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute
	fallbackMessage = "API request failed"
)

// TokenSource supplies the bearer token for each request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Client talks to the platform API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
	retries int
	delay   time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithToken is shorthand for WithTokenSource(StaticToken(token)).
func WithToken(token string) Option {
	return WithTokenSource(StaticToken(token))
}

// WithCache serves space listings from ch for ttl. Keys are scoped to the
// client's base URL.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ch
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRefresh makes cached reads bypass the cache while still updating it.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithRetry overrides the GET retry policy.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = attempts
		c.delay = delay
	}
}

// WithLogger sets the logger for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the platform at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid API URL %q", baseURL)
	}

	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  StaticToken(""),
		cache:   cache.NewNullCache(),
		ttl:     defaultCacheTTL,
		retries: 3,
		delay:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), u.String()+"|")
	return c, nil
}

// BaseURL returns the platform endpoint this client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// get performs an idempotent GET with retries.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return unwrapRetryable(httputil.Retry(ctx, c.retries, c.delay, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}))
}

// send performs a write exactly once.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return unwrapRetryable(c.do(ctx, method, path, body, out))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reqBody)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hooks := observability.HTTP()
	host := c.base.Host
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(errors.ErrCodeTimeout, ctxErr, "%s %s", method, path)
		}
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, elapsed)
	c.logger.Debug("api", "method", method, "path", path, "status", resp.StatusCode, "elapsed", elapsed.Round(time.Millisecond))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read response")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data, resp.Header.Get("Retry-After"))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeAPI, err, "decode %s response", path)
	}
	return nil
}

// statusError converts a non-2xx response into a coded error. Transient
// statuses are wrapped so that GET retries pick them up.
func statusError(status int, body []byte, retryAfter string) error {
	msg := fallbackMessage
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Error != "":
			msg = eb.Error
		case eb.Details != "":
			msg = eb.Details
		}
	}

	var err error
	switch {
	case status == http.StatusUnauthorized:
		err = errors.New(errors.ErrCodeUnauthorized, "%s", msg)
	case status == http.StatusForbidden:
		err = errors.New(errors.ErrCodeForbidden, "%s", msg)
	case status == http.StatusNotFound:
		err = errors.New(errors.ErrCodeNotFound, "%s", msg)
	case status == http.StatusTooManyRequests:
		rl := &errors.RateLimitedError{Message: msg}
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			rl.RetryAfter = secs
		}
		err = errors.Wrap(errors.ErrCodeRateLimited, rl, "%s", msg)
	case status >= 500:
		err = errors.New(errors.ErrCodeNetwork, "%s (status %d)", msg, status)
	default:
		err = errors.New(errors.ErrCodeAPI, "%s", msg)
	}

	if httputil.IsRetryableStatus(status) {
		return &httputil.RetryableError{Err: err}
	}
	return err
}

func unwrapRetryable(err error) error {
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}

// cached reads key from the cache into v, or runs fetch and stores v.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Debug("cache write failed", "key", key, "err", err)
		}
	}
	return nil
}

func (c *Client) invalidate(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := c.cache.Delete(ctx, k); err != nil {
			c.logger.Debug("cache delete failed", "key", k, "err", err)
		}
	}
}

func pathID(kind, id string) (string, error) {
	if err := errors.ValidateID(kind, id); err != nil {
		return "", err
	}
	return url.PathEscape(id), nil
}
