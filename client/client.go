// Package client implements the storefront API access layer: an HTTP
// request wrapper with retry, backoff, and response classification, a TTL
// response cache consulted before network access, and a per-resource
// facade (auth, products, inquiries, users, debug).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/industrialmart/storefront-go/core"
	"github.com/industrialmart/storefront-go/resilience"
)

// csrfCookieName is the cookie the backend sets for double-submit CSRF
// protection; its value is echoed back in the X-CSRF-Token header.
const csrfCookieName = "csrf_token"

var emptyList = json.RawMessage("[]")

// errRateLimited signals a 429 inside an attempt; the retry loop sleeps
// and re-attempts without consuming a failure.
var errRateLimited = errors.New("rate limited")

// FallbackProvider supplies placeholder catalog data when the primary
// backend has none. Implementations must degrade to empty results, never
// error.
type FallbackProvider interface {
	IndustrialProducts(ctx context.Context, category Category, limit int) []Product
	Suggestions(ctx context.Context, query string, limit int) []Product
}

// Client is the storefront API client. All state that the request wrapper
// mutates (cookie jar, response cache, circuit breaker) lives on the
// instance; construct one at application start and share it.
type Client struct {
	baseURL    string
	origin     string
	httpClient *http.Client

	cache        core.Cache
	cacheTTL     time.Duration
	cacheEnabled bool

	retry   *resilience.RetryConfig
	timeout time.Duration
	breaker *resilience.CircuitBreaker

	logger      core.Logger
	telemetry   core.Telemetry
	fallback    FallbackProvider
	onAuthError func(error)

	// Facade groups
	Auth      *AuthService
	Products  *ProductService
	Inquiries *InquiryService
	Users     *UserService
	Debug     *DebugService
}

// ClientOption customizes a Client beyond what Config covers
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger core.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTelemetry sets the telemetry provider
func WithTelemetry(t core.Telemetry) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// WithCache replaces the default in-memory response cache
func WithCache(cache core.Cache) ClientOption {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithFallback wires the external fallback provider
func WithFallback(fb FallbackProvider) ClientOption {
	return func(c *Client) { c.fallback = fb }
}

// WithHTTPClient replaces the underlying HTTP client. The replacement
// should carry a cookie jar or session cookies will be dropped.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAuthErrorHook registers a callback invoked whenever a request is
// rejected with one of the four classified auth errors, including reads
// that afterwards degrade to an empty result. Session state trackers hang
// off this to observe an expired session the moment any request reports it.
func WithAuthErrorHook(fn func(error)) ClientOption {
	return func(c *Client) { c.onAuthError = fn }
}

// WithCircuitBreaker replaces the default backend circuit breaker
func WithCircuitBreaker(cb *resilience.CircuitBreaker) ClientOption {
	return func(c *Client) {
		if cb != nil {
			c.breaker = cb
		}
	}
}

// New creates a Client from configuration. The default HTTP client carries
// a cookie jar (the backend session is cookie-based) and an
// otelhttp-instrumented transport.
func New(cfg *core.Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		var err error
		cfg, err = core.NewConfig()
		if err != nil {
			return nil, err
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		origin:  cfg.Origin,
		httpClient: &http.Client{
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:        core.NewMemoryCache(),
		cacheTTL:     cfg.CacheTTL,
		cacheEnabled: cfg.CacheEnabled,
		retry: &resilience.RetryConfig{
			MaxAttempts:   cfg.RetryAttempts,
			InitialDelay:  cfg.RetryDelay,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
		},
		timeout:   cfg.Timeout,
		breaker:   resilience.NewCircuitBreaker(nil),
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Products = &ProductService{client: c}
	c.Inquiries = &InquiryService{client: c}
	c.Users = &UserService{client: c}
	c.Debug = &DebugService{client: c}

	return c, nil
}

// RequestOptions controls a single logical request through the wrapper
type RequestOptions struct {
	Method   string
	Body     interface{}
	Headers  map[string]string
	NoCache  bool
	CacheKey string
	Retries  int
	Timeout  time.Duration
}

// attemptResult is what one network attempt produced. Degraded payloads
// were synthesized by the status-code policy and must not be cached.
type attemptResult struct {
	payload    json.RawMessage
	degraded   bool
	retryAfter time.Duration
}

// do performs one logical request: cache consult, bounded attempts with
// exponential backoff, response classification. Returns the raw payload;
// a nil payload with nil error means the endpoint resolved to "null"
// (404, 400 outside curated lists, 500 on a product detail).
func (c *Client) do(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = c.retry.MaxAttempts
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	cacheKey := opts.CacheKey
	if cacheKey == "" {
		cacheKey = endpoint
	}
	cacheable := c.cacheEnabled && !opts.NoCache && opts.Method == http.MethodGet && !isUncachedEndpoint(endpoint)

	ctx, span := c.telemetry.StartSpan(ctx, "storefront.request")
	defer span.End()
	span.SetAttribute("http.method", opts.Method)
	span.SetAttribute("storefront.endpoint", endpoint)

	if cacheable {
		if data, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
			span.SetAttribute("cache.hit", true)
			return data, nil
		}
	}

	var body []byte
	if opts.Body != nil {
		var err error
		body, err = json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	if isAuthEndpoint(endpoint) {
		c.logger.Debug("Auth request initiated", map[string]interface{}{
			"operation":  "auth_request",
			"endpoint":   endpoint,
			"method":     opts.Method,
			"request_id": requestID,
		})
	}

	var lastErr error
	attempt := 0
	for attempt < retries {
		result, err := c.attempt(ctx, endpoint, opts.Method, body, opts.Headers, timeout, requestID, attempt)
		if err == nil {
			if cacheable && !result.degraded && result.payload != nil {
				if cerr := c.cache.Set(ctx, cacheKey, result.payload, c.cacheTTL); cerr != nil {
					c.logger.Warn("Failed to cache response", map[string]interface{}{
						"operation": "cache_set",
						"endpoint":  endpoint,
						"error":     cerr.Error(),
					})
				}
			}
			c.telemetry.RecordMetric("storefront.request.success", 1, map[string]string{"endpoint": endpoint})
			return result.payload, nil
		}

		// Classified auth outcomes are terminal
		if core.IsAuthError(err) {
			if c.onAuthError != nil {
				c.onAuthError(err)
			}
			if isAuthEndpoint(endpoint) {
				c.logger.Debug("Auth request classified", map[string]interface{}{
					"operation":  "auth_classification",
					"endpoint":   endpoint,
					"request_id": requestID,
					"error":      err.Error(),
				})
			}
			span.RecordError(err)
			return nil, err
		}
		if errors.Is(err, core.ErrCircuitBreakerOpen) {
			span.RecordError(err)
			return nil, err
		}
		// A client-side abort is terminal: the caller gets the distinct
		// timeout error instead of another trip through the backoff loop
		if errors.Is(err, core.ErrRequestTimeout) {
			span.RecordError(err)
			c.telemetry.RecordMetric("storefront.request.timeout", 1, map[string]string{"endpoint": endpoint})
			return nil, err
		}

		// A 429 sleeps and re-enters the loop without consuming an attempt
		if errors.Is(err, errRateLimited) {
			c.logger.Warn("Backend rate limited, waiting before retry", map[string]interface{}{
				"operation":      "rate_limit_wait",
				"endpoint":       endpoint,
				"retry_after_ms": result.retryAfter.Milliseconds(),
			})
			if serr := resilience.Sleep(ctx, result.retryAfter); serr != nil {
				return nil, serr
			}
			continue
		}

		lastErr = err
		attempt++
		if attempt >= retries {
			break
		}

		delay := c.retry.Delay(attempt)
		c.logger.Warn("Request failed, retrying", map[string]interface{}{
			"operation":      "request_retry",
			"endpoint":       endpoint,
			"attempt":        attempt,
			"max_attempts":   retries,
			"retry_delay_ms": delay.Milliseconds(),
			"error":          err.Error(),
		})
		if serr := resilience.Sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}

	span.RecordError(lastErr)
	c.logger.Error("Request failed after all attempts", map[string]interface{}{
		"operation":      "request_final_failure",
		"endpoint":       endpoint,
		"total_attempts": retries,
		"error":          lastErr.Error(),
	})
	c.telemetry.RecordMetric("storefront.request.failure", 1, map[string]string{"endpoint": endpoint})
	return nil, fmt.Errorf("%w after %d attempts: %w", core.ErrMaxRetriesExceeded, retries, lastErr)
}

// attempt runs one network attempt inside its own timeout window
func (c *Client) attempt(ctx context.Context, endpoint, method string, body []byte, headers map[string]string, timeout time.Duration, requestID string, attempt int) (attemptResult, error) {
	if !c.breaker.CanExecute() {
		return attemptResult{}, fmt.Errorf("backend unavailable: %w", core.ErrCircuitBreakerOpen)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return attemptResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", c.origin)
	req.Header.Set("X-Request-ID", requestID)
	if token := c.csrfToken(); token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		// Per-attempt timeout, not a caller cancellation
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return attemptResult{}, fmt.Errorf("no response within %v: %w", timeout, core.ErrRequestTimeout)
		}
		return attemptResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return attemptResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	return c.classify(endpoint, resp, respBody, attempt)
}

// classify applies the status-code policy. Checked in precedence order;
// first match wins.
func (c *Client) classify(endpoint string, resp *http.Response, body []byte, attempt int) (attemptResult, error) {
	status := resp.StatusCode

	switch {
	case status == http.StatusBadRequest:
		c.breaker.RecordSuccess()
		if isCuratedListEndpoint(endpoint) {
			return attemptResult{payload: emptyList, degraded: true}, nil
		}
		return attemptResult{degraded: true}, nil

	case status == http.StatusUnauthorized:
		c.breaker.RecordSuccess()
		return attemptResult{}, classifyUnauthorized(endpoint, body)

	case status == http.StatusNotFound:
		c.breaker.RecordSuccess()
		return attemptResult{degraded: true}, nil

	case status == http.StatusTooManyRequests:
		c.breaker.RecordSuccess()
		return attemptResult{retryAfter: c.retryAfter(resp, attempt)}, errRateLimited

	case status >= http.StatusInternalServerError:
		c.breaker.RecordFailure()
		if isProductListEndpoint(endpoint) {
			return attemptResult{payload: emptyList, degraded: true}, nil
		}
		if isProductDetailEndpoint(endpoint) {
			return attemptResult{degraded: true}, nil
		}
		return attemptResult{}, core.NewAPIError("", endpoint, status, core.ErrServerError)

	case status >= 300:
		c.breaker.RecordSuccess()
		msg := extractErrorMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return attemptResult{}, core.HTTPStatusError(endpoint, status, msg)

	default:
		c.breaker.RecordSuccess()
		return attemptResult{payload: body}, nil
	}
}

// retryAfter honors the Retry-After header in seconds, falling back to
// the exponential backoff delay for this attempt.
func (c *Client) retryAfter(resp *http.Response, attempt int) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.retry.Delay(attempt)
}

// classifyUnauthorized maps a 401 to one of the four terminal auth
// classifications. Substring matching on server messages is a stopgap
// until the backend emits stable error codes; it is isolated here so the
// swap is one function.
func classifyUnauthorized(endpoint string, body []byte) error {
	path := stripQuery(endpoint)
	if path == "/auth/login" {
		msg := strings.ToLower(extractErrorMessage(body))
		switch {
		case strings.Contains(msg, "user not found") || strings.Contains(msg, "does not exist"):
			return core.NewAPIError("auth.login", path, http.StatusUnauthorized, core.ErrAccountNotFound)
		case strings.Contains(msg, "invalid password") || strings.Contains(msg, "credentials"):
			return core.NewAPIError("auth.login", path, http.StatusUnauthorized, core.ErrInvalidPassword)
		default:
			return core.NewAPIError("auth.login", path, http.StatusUnauthorized, core.ErrAuthenticationFailed)
		}
	}
	return core.NewAPIError("", path, http.StatusUnauthorized, core.ErrSessionExpired)
}

// extractErrorMessage pulls a human-readable message out of an error body:
// JSON "error" or "message" fields when present, otherwise the raw text.
func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// csrfToken reads the CSRF cookie the backend set, if any
func (c *Client) csrfToken() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// OnAuthError registers the classified-auth-error callback after
// construction, for assembly code that builds the observer from the
// client's own facade. Register before the client is shared across
// goroutines.
func (c *Client) OnAuthError(fn func(error)) {
	c.onAuthError = fn
}

// ClearCache drops every cached response
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// InvalidateCache drops a single cached response by key (the endpoint
// path unless the request used an explicit CacheKey)
func (c *Client) InvalidateCache(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// Endpoint classification helpers. Query strings never participate.

func stripQuery(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func isAuthEndpoint(endpoint string) bool {
	return strings.HasPrefix(stripQuery(endpoint), "/auth")
}

func isUncachedEndpoint(endpoint string) bool {
	path := stripQuery(endpoint)
	return strings.HasPrefix(path, "/auth") || strings.HasPrefix(path, "/debug")
}

func isCuratedListEndpoint(endpoint string) bool {
	path := stripQuery(endpoint)
	return path == "/products/discounted" || path == "/products/popular"
}

func isProductListEndpoint(endpoint string) bool {
	path := stripQuery(endpoint)
	return path == "/products" ||
		strings.HasPrefix(path, "/products/category/") ||
		strings.HasPrefix(path, "/products/search") ||
		isCuratedListEndpoint(endpoint)
}

// isProductDetailEndpoint matches /products/:id, one trailing segment
// that is not one of the reserved list paths
func isProductDetailEndpoint(endpoint string) bool {
	path := stripQuery(endpoint)
	if !strings.HasPrefix(path, "/products/") {
		return false
	}
	rest := strings.TrimPrefix(path, "/products/")
	if rest == "" || strings.Contains(rest, "/") {
		return false
	}
	switch rest {
	case "search", "discounted", "popular":
		return false
	}
	return true
}
