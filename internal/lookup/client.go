package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/webnetes/webnetesctl/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultRetryDelay is the initial delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// DefaultUserAgent identifies requests to public services
	DefaultUserAgent = "webnetesctl"

	// maxBodySize caps how much of a response is read
	maxBodySize = 1 << 20
)

// Client performs GET requests against one lookup service
type Client struct {
	// BaseURL is the service root, e.g. "https://nominatim.openstreetmap.org"
	BaseURL string

	// UserAgent is sent with every request
	UserAgent string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the number of extra attempts for retryable failures
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a client for baseURL with no retries
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		UserAgent:     DefaultUserAgent,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// GetText fetches path and returns the body with surrounding whitespace
// removed.
func (c *Client) GetText(ctx context.Context, source, path string, query url.Values) (string, error) {
	body, err := c.get(ctx, source, path, query)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetJSON fetches path and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, source, path string, query url.Values, out interface{}) error {
	body, err := c.get(ctx, source, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		parseErr := NewParseError(source, "failed to parse JSON response", err)
		logFailure(source, parseErr)
		return parseErr
	}
	return nil
}

func (c *Client) get(ctx context.Context, source, path string, query url.Values) ([]byte, error) {
	var body []byte
	operation := func() error {
		b, err := c.attempt(ctx, source, path, query)
		if err != nil {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	retrying := func(err error, wait time.Duration) {
		logging.LogLookup(source, "retrying",
			zap.String("class", failureClass(err)),
			zap.String("reason", GetShortErrorMessage(err)),
			zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(operation, c.backOff(ctx), retrying); err != nil {
		logFailure(source, err)
		return nil, err
	}
	return body, nil
}

// logFailure records a request that gave up, with the advice an operator
// reading the log file needs.
func logFailure(source string, err error) {
	logging.LogLookup(source, "request_failed",
		zap.String("class", failureClass(err)),
		zap.String("reason", GetShortErrorMessage(err)),
		zap.String("hint", GetTroubleshootingHint(err)),
		zap.Error(err))
}

// failureClass groups a lookup error for log filtering
func failureClass(err error) string {
	switch {
	case IsNetworkError(err):
		return "network"
	case IsHTTPError(err):
		return "http"
	case IsParseError(err):
		return "parse"
	case IsNoMatch(err):
		return "no_match"
	default:
		return "other"
	}
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.RetryDelay
	b.MaxInterval = c.MaxRetryDelay
	b.MaxElapsedTime = 0

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// attempt performs a single request
func (c *Client) attempt(ctx context.Context, source, path string, query url.Values) ([]byte, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, NewNetworkError(source, fmt.Sprintf("invalid request URL %q", target), err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(source, "service unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(source, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError(source, "failed to read response body", err)
	}
	return body, nil
}
