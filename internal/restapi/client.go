package restapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryConfig configures the bounded retry loop.
type RetryConfig struct {
	MaxAttempts int
	// BackoffUnit scales the exponential backoff. Production keeps the
	// default of one second, giving 5s, 25s, 125s waits; tests shrink it.
	BackoffUnit time.Duration
}

// DefaultRetryConfig returns the retry settings used against the Auth0 and
// Descope APIs. Both enforce strict rate limits, so the backoff is
// deliberately aggressive.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BackoffUnit: time.Second,
	}
}

// Response is the decoded-enough result of a call: status plus the fully
// read body. The call layer never interprets the body.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues single HTTP requests with bounded retry and exponential
// backoff. Every other component talks to the network through it.
type Client struct {
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a call-layer client.
func NewClient(retry RetryConfig, logger *slog.Logger) *Client {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultRetryConfig().MaxAttempts
	}
	if retry.BackoffUnit <= 0 {
		retry.BackoffUnit = DefaultRetryConfig().BackoffUnit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      retry,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Do issues one GET or POST and retries on rate limiting and read timeouts.
// Any other status code, including 4xx/5xx, is returned as-is for the caller
// to interpret. Hard transport failures abort without exhausting retries.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	cause := ErrRetriesExhausted
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		resp, err := c.doOnce(ctx, method, url, headers, body)
		if err != nil {
			if !isTimeoutError(err) {
				return nil, &APIError{Method: method, URL: url, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
			}
			cause = ErrTimeout
			c.logger.Warn("Request timed out", "method", method, "url", url, "attempt", attempt)
		} else if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		} else {
			cause = ErrRateLimited
		}

		if attempt == c.retry.MaxAttempts {
			break
		}

		wait := c.backoffFor(attempt)
		c.logger.Info("Rate limit reached, retrying",
			"method", method,
			"url", url,
			"attempt", attempt,
			"wait", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, &APIError{Method: method, URL: url, Err: fmt.Errorf("context cancelled during backoff: %w", err)}
		}
	}

	c.logger.Error("Max retries reached, giving up", "method", method, "url", url)
	if cause != ErrRetriesExhausted {
		return nil, &APIError{Method: method, URL: url, Err: fmt.Errorf("%w: %w", ErrRetriesExhausted, cause)}
	}
	return nil, &APIError{Method: method, URL: url, Err: ErrRetriesExhausted}
}

// Get issues a GET request through the retry loop.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, headers, nil)
}

// Post issues a POST request through the retry loop.
func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body []byte) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, headers, body)
}

func (c *Client) doOnce(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// backoffFor returns 5^attempt backoff units, attempt starting at 1.
func (c *Client) backoffFor(attempt int) time.Duration {
	wait := c.retry.BackoffUnit
	for i := 0; i < attempt; i++ {
		wait *= 5
	}
	return wait
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
