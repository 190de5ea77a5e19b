// Package fetch retrieves pages and JSON documents from the show sites.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"show-scraper/internal/cache"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; show-scraper/1.0)"

// DefaultAttempts is how many times a request is tried before giving up.
const DefaultAttempts = 3

// PageFetcher returns the body of a page.
type PageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status carried by a fetch error, or 0.
func StatusCode(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an HTTP 404 or 410.
func IsNotFound(err error) bool {
	code := StatusCode(err)
	return code == http.StatusNotFound || code == http.StatusGone
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Attempts  int
	Backoff   time.Duration

	// Cache, when set, serves GET bodies from disk.
	Cache *cache.Cache

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() Options {
	return Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Attempts:  DefaultAttempts,
		Backoff:   time.Second,
	}
}

// Client fetches URLs with retries.
type Client struct {
	http      *http.Client
	userAgent string
	attempts  int
	backoff   time.Duration
	cache     *cache.Cache
	log       *zap.Logger
}

// NewClient creates a Client. Zero option values fall back to the defaults.
func NewClient(opts Options, log *zap.Logger) *Client {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:      httpClient,
		userAgent: opts.UserAgent,
		attempts:  opts.Attempts,
		backoff:   opts.Backoff,
		cache:     opts.Cache,
		log:       log,
	}
}

// Get returns the body of a successful GET request.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			c.log.Debug("cache hit", zap.String("url", rawURL))
			return body, nil
		}
	}

	body, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(rawURL, body); err != nil {
			c.log.Warn("caching response failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return body, nil
}

// Document fetches a URL and parses it as an HTML document.
func (c *Client) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// JSON fetches a URL and decodes the body into v.
func (c *Client) JSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		if c.cache != nil {
			if err := c.cache.Invalidate(rawURL); err != nil {
				c.log.Warn("invalidating cached response failed", zap.String("url", rawURL), zap.Error(err))
			}
		}
		return &Error{URL: rawURL, Message: "decoding JSON", Cause: err}
	}
	return nil
}

// Probe reports whether a URL answers a HEAD request with a success status after
// redirects.
func (c *Client) Probe(ctx context.Context, rawURL string) (bool, error) {
	_, err := c.do(ctx, http.MethodHead, rawURL)
	if err == nil {
		return true, nil
	}
	if StatusCode(err) != 0 {
		return false, nil
	}
	return false, err
}

// ParseDocument parses an HTML body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			c.log.Debug("retrying request",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			if err := sleep(ctx, c.backoff*time.Duration(attempt-1)); err != nil {
				return nil, &Error{URL: rawURL, Message: "request cancelled", Cause: err}
			}
		}

		body, retry, err := c.once(ctx, method, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, false, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &Error{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return body, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
