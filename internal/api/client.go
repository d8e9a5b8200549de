// Package api is the HTTP client for the remote Jellyfin catalog. Every
// outbound call goes through a single gateway that applies rate limiting,
// circuit breaking, retry on 429/5xx, and structured request logging.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmagar/jellybrowse/internal/model"
)

const (
	DefaultClientName    = "Jellybrowse"
	DefaultClientVersion = "0.1.0"
	DefaultDeviceName    = "jellybrowse"
	UserAgent            = "Jellybrowse/0.1.0"
)

// Observer receives one callback per completed HTTP attempt. status is 0 for
// network errors.
type Observer func(label string, status int, duration time.Duration)

type retryPolicy struct {
	maxRetries int
	initial    time.Duration
	max        time.Duration
}

// Client talks to one Jellyfin server on behalf of one user.
// All methods are safe for concurrent use.
type Client struct {
	baseURL *url.URL
	userID  string
	token   string

	clientName    string
	clientVersion string
	deviceName    string
	deviceID      string

	http     *http.Client
	limiter  *rateLimiter
	breaker  *circuitBreaker
	retry    retryPolicy
	log      *APILog
	observer Observer
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for catalog calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit overrides the courtesy rate limit (default 10 req/s, burst 20).
func WithRateLimit(ratePerSec float64, burst int) Option {
	return func(c *Client) { c.limiter = newRateLimiter(ratePerSec, burst) }
}

// WithCircuitBreaker overrides the breaker threshold and open duration.
func WithCircuitBreaker(threshold int, resetTimeout time.Duration) Option {
	return func(c *Client) { c.breaker = newCircuitBreaker(threshold, resetTimeout) }
}

// WithRetry overrides the retry budget and backoff bounds.
func WithRetry(maxRetries int, initial, max time.Duration) Option {
	return func(c *Client) { c.retry = retryPolicy{maxRetries: maxRetries, initial: initial, max: max} }
}

// WithObserver registers a per-attempt callback, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithAPILog routes request logs to an already opened logger.
func WithAPILog(l *APILog) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client from cfg. ServerURL, UserID and AccessToken are required.
func New(cfg *model.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", model.ErrInvalidConfig)
	}
	base, err := NormalizeServerURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("%w: accessToken is required", model.ErrInvalidConfig)
	}

	c := &Client{
		baseURL:       base,
		userID:        strings.TrimSpace(cfg.UserID),
		token:         strings.TrimSpace(cfg.AccessToken),
		clientName:    orDefault(cfg.ClientName, DefaultClientName),
		clientVersion: orDefault(cfg.ClientVersion, DefaultClientVersion),
		deviceName:    orDefault(cfg.DeviceName, DefaultDeviceName),
		deviceID:      cfg.DeviceID,
		http:          &http.Client{Timeout: 30 * time.Second},
		limiter:       newRateLimiter(10.0, 20),
		breaker:       newCircuitBreaker(5, 30*time.Second),
		retry:         retryPolicy{maxRetries: 3, initial: 500 * time.Millisecond, max: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

// NormalizeServerURL validates a server base URL and strips trailing slashes.
func NormalizeServerURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: serverUrl is required", model.ErrInvalidConfig)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: serverUrl: %w", model.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: serverUrl scheme must be http or https, got %q", model.ErrInvalidConfig, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: serverUrl has no host", model.ErrInvalidConfig)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the normalised server URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// UserID returns the user the client browses as.
func (c *Client) UserID() string { return c.userID }

// AccessToken returns the API token.
func (c *Client) AccessToken() string { return c.token }

// DeviceID returns the device identifier sent with every request.
func (c *Client) DeviceID() string { return c.deviceID }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) authorization() string {
	return fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s", Token="%s"`,
		c.clientName, c.deviceName, c.deviceID, c.clientVersion, c.token)
}

// do is the single gateway for every outbound API call.
//
// It enforces, in order:
//  1. Rate limiting - token bucket
//  2. Circuit breaker - rejects immediately when open
//  3. HTTP execution - with context cancellation
//  4. Retry on 429 / 5xx - exponential backoff, Retry-After respected
//  5. Structured logging and observer callback for every attempt
//
// Caller is responsible for closing the returned response body.
func (c *Client) do(ctx context.Context, label string, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := c.retry.initial

	for attempt := 0; ; attempt++ {
		waited, err := c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limiter cancelled for %s: %w", label, err)
		}
		if waited > time.Millisecond {
			c.log.waited(label, waited)
		}

		cbState, allowed := c.breaker.Allow()
		if !allowed {
			c.log.rejected(label)
			return nil, fmt.Errorf("%w (label: %s)", ErrCircuitOpen, label)
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", c.authorization())
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		duration := time.Since(start)

		if err != nil {
			// Network errors do not count against the breaker.
			c.log.attempt(label, 0, duration, attempt, cbState, err)
			c.observe(label, 0, duration)
			return nil, err
		}
		c.observe(label, resp.StatusCode, duration)

		isAPIError := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !isAPIError {
			prev := c.breaker.RecordSuccess()
			if prev != circuitClosed {
				c.log.transition(label, prev, circuitClosed)
			}
			c.log.attempt(label, resp.StatusCode, duration, attempt, circuitClosed, nil)
			return resp, nil
		}

		resp.Body.Close()
		newState := c.breaker.RecordFailure()
		if newState == circuitOpen && cbState != circuitOpen {
			c.log.transition(label, cbState, newState)
		}
		apiErr := fmt.Errorf("HTTP %s", resp.Status)
		c.log.attempt(label, resp.StatusCode, duration, attempt, newState, apiErr)

		if attempt >= c.retry.maxRetries {
			return nil, fmt.Errorf("API %s failed after %d attempts: %w", label, attempt+1, apiErr)
		}

		wait := backoff
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, e := strconv.Atoi(ra); e == nil {
				wait = time.Duration(secs) * time.Second
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		backoff = min(backoff*2, c.retry.max)
	}
}

func (c *Client) observe(label string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer(label, status, d)
	}
}

func (c *Client) getJSON(ctx context.Context, label, path string, query url.Values, out any) error {
	target := c.endpoint(path, query)
	resp, err := c.do(ctx, label, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Label: label, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", label, err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, "system.ping", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/System/Ping", nil), nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Label: "system.ping", StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// UserViews lists the user's top-level collections.
func (c *Client) UserViews(ctx context.Context) ([]model.BaseItem, error) {
	query := url.Values{}
	query.Set("userId", c.userID)
	var result model.ItemsResult
	if err := c.getJSON(ctx, "userviews", "/UserViews", query, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Items lists or searches catalog records.
func (c *Client) Items(ctx context.Context, q model.ItemQuery) (*model.ItemsResult, error) {
	var result model.ItemsResult
	if err := c.getJSON(ctx, "items", "/Items", c.itemsQuery(q), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) itemsQuery(q model.ItemQuery) url.Values {
	query := url.Values{}
	query.Set("userId", c.userID)
	if q.ParentID != "" {
		query.Set("parentId", q.ParentID)
	}
	if len(q.IncludeItemTypes) > 0 {
		kinds := make([]string, len(q.IncludeItemTypes))
		for i, k := range q.IncludeItemTypes {
			kinds[i] = string(k)
		}
		query.Set("includeItemTypes", strings.Join(kinds, ","))
	}
	if len(q.SortBy) > 0 {
		sorts := make([]string, len(q.SortBy))
		for i, s := range q.SortBy {
			sorts[i] = string(s)
		}
		query.Set("sortBy", strings.Join(sorts, ","))
	}
	if q.Recursive {
		query.Set("recursive", "true")
	}
	if q.SearchTerm != "" {
		query.Set("searchTerm", q.SearchTerm)
	}
	if q.ImageTypeLimit > 0 {
		query.Set("imageTypeLimit", strconv.Itoa(q.ImageTypeLimit))
	}
	if len(q.EnableImageTypes) > 0 {
		types := make([]string, len(q.EnableImageTypes))
		for i, t := range q.EnableImageTypes {
			types[i] = string(t)
		}
		query.Set("enableImageTypes", strings.Join(types, ","))
	}
	if q.StartIndex > 0 {
		query.Set("startIndex", strconv.Itoa(q.StartIndex))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	return query
}

// ImageURL builds the URL of an item image. No request is made.
func (c *Client) ImageURL(itemID string, imageType model.ImageType, tag string) string {
	query := url.Values{}
	if tag != "" {
		query.Set("tag", tag)
	}
	return c.endpoint("/Items/"+url.PathEscape(itemID)+"/Images/"+string(imageType), query)
}
