package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	tverrors "github.com/jdziat/traceview-go/pkg/errors"
)

// Client is a retrying, basic-auth JSON GET client implementing Doer.
type Client struct {
	baseURL    string
	publicKey  string
	secretKey  string
	httpClient *http.Client
	maxRetries int
	backoff    ExponentialBackoff
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff replaces the retry backoff policy.
func WithBackoff(b ExponentialBackoff) ClientOption {
	return func(c *Client) { c.backoff = b }
}

// NewClient creates a read-only API client. Credentials are sent as HTTP
// basic auth, matching the public API convention.
func NewClient(baseURL, publicKey, secretKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		publicKey:  publicKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		backoff:    ExponentialBackoff{InitialDelay: time.Second, Jitter: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements Doer. Transient failures are retried with exponential
// backoff; the context bounds the whole operation including waits.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff.Delay(attempt-1, lastErr)):
			}
		}
		lastErr = c.get(ctx, path, query, result)
		if lastErr == nil {
			return nil
		}
		if !ShouldRetry(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.publicKey, c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiErrorFromResponse(resp)
	}
	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &tverrors.APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(body) > 0 {
		// best effort: keep the raw body when it is not the error shape
		if json.Unmarshal(body, apiErr) != nil || (apiErr.Message == "" && apiErr.ErrorMessage == "") {
			apiErr.Message = string(body)
		}
	}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}
