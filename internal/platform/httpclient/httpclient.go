// Package httpclient provides the HTTP client shared by provider adapters: retry with
// exponential backoff, per-provider rate limiting, an optional response cache, and
// classification of every failure into the provider error taxonomy.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"subharvest/internal/platform/cache"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/rate"
)

// maxBodyBytes caps how much of a provider response is read into memory.
const maxBodyBytes = 64 << 20

// Client is an HTTP client with retry logic, rate limiting, and timeout support.
// It is safe for concurrent use; one Client is built per provider.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       cache.Cache[[]byte]
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts on network errors
	// and retryable status codes (429, 502, 503, 504).
	// Default: 0
	MaxRetries int

	// RetryBackoff is the initial backoff duration; it doubles with each retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff duration.
	// Default: 30 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	UserAgent string

	// RateLimit is the maximum requests per second. 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int

	// ProxyURL routes requests through an HTTP(S) proxy when set.
	ProxyURL string

	// Cache stores successful response bodies keyed by URL. nil disables caching.
	Cache cache.Cache[[]byte]

	// CacheTTL is the lifetime of cached bodies. 0 keeps them for the whole run.
	CacheTTL time.Duration
}

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "subharvest/1.0"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      0,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       DefaultUserAgent,
		RateLimitBurst:  1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) (*Client, error) {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff <= 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = 1
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.ProxyURL != "" {
		proxy, err := url.Parse(config.ProxyURL)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "proxy url %q", config.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	var rateLimiter *rate.Limiter
	if config.RateLimit > 0 {
		rateLimiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout, Transport: transport},
		rateLimiter: rateLimiter,
		cache:       config.Cache,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}, nil
}

// Request performs an HTTP request with retry logic and rate limiting.
// Network failures come back wrapping errors.ErrProviderUnavailable.
// The caller owns the returned response body.
func (c *Client) Request(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Unavailable(err, "rate limit wait")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "build request %s %s: %v", method, rawURL, err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request",
			"method", method,
			"url", redact(rawURL),
			"attempt", attempt+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			lastErr = errors.Unavailable(err, fmt.Sprintf("%s %s", method, redact(rawURL)))
			c.logger.Debug("HTTP request failed",
				"url", redact(rawURL),
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)

			if ctx.Err() != nil || attempt >= c.config.MaxRetries {
				return nil, lastErr
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Unavailable(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"url", redact(rawURL),
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !isRetryableStatus(resp.StatusCode) || attempt >= c.config.MaxRetries {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = statusError(resp)

		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Unavailable(err, "backoff interrupted")
		}
	}

	return nil, lastErr
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, rawURL, nil, headers)
}

// Fetch performs a GET request and returns the body of a 2xx response. Bodies are
// served from and stored in the cache when one is configured.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	key := cacheKey(rawURL, headers)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug("cache hit", "url", redact(rawURL))
			return body, nil
		}
	}

	resp, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "GET %s", redact(rawURL))
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, body, c.config.CacheTTL)
	}
	return body, nil
}

// FetchJSON performs a GET request expecting JSON and decodes the body into v.
// A body that does not decode is a protocol failure.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	merged := map[string]string{"Accept": "application/json"}
	for k, val := range headers {
		merged[k] = val
	}

	body, err := c.Fetch(ctx, rawURL, merged)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Protocol(errors.Join(errors.ErrInvalidResponse, err), fmt.Sprintf("decode %s", redact(rawURL)))
	}
	return nil
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Unavailable(err, "read response body")
	}
	return body, nil
}

// CheckStatus returns nil for 2xx responses and a classified error otherwise:
// 429 and 5xx are ProviderUnavailable, everything else is ProviderProtocol.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.Protocol(errors.ErrInvalidResponse, "nil response")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	status := fmt.Sprintf("HTTP %d", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Unavailable(errors.ErrRateLimit, status)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.Protocol(errors.ErrUnauthorized, status)
	case resp.StatusCode == http.StatusNotFound:
		return errors.Protocol(errors.ErrNotFound, status)
	case resp.StatusCode >= 500:
		return errors.Unavailable(errors.ErrServiceUnavailable, status)
	default:
		return errors.Protocol(errors.ErrInvalidResponse, status)
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff waits RetryBackoff * 2^attempt, capped at MaxRetryBackoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s, cache=%t}",
		c.config.Timeout,
		c.config.MaxRetries,
		c.config.RateLimit,
		c.cache != nil,
	)
}

// cacheKey includes request headers so that responses fetched with different
// credentials are never shared.
func cacheKey(rawURL string, headers map[string]string) string {
	if len(headers) == 0 {
		return rawURL
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(rawURL)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(headers[k])
	}
	return b.String()
}

// redact strips the query string so API keys passed as parameters never reach the logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	q := u.Query()
	for _, k := range []string{"key", "apikey", "api_key", "token"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
