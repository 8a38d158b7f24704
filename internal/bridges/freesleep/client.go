package freesleep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/awender/podlink/internal/infrastructure/config"
	"github.com/awender/podlink/internal/infrastructure/logging"
)

// Device API endpoints.
const (
	deviceStatusEndpoint = "/api/deviceStatus"
	settingsEndpoint     = "/api/settings"
	servicesEndpoint     = "/api/services"
	schedulesEndpoint    = "/api/schedules"
	jobsEndpoint         = "/api/jobs"
	vitalsEndpoint       = "/api/metrics/vitals/summary"
)

// maxResponseSize caps how much of a device response body we read.
const maxResponseSize = 1 << 20 // 1 MiB

// Client talks to the free-sleep firmware over its local HTTP API.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	retry   config.RetryConfig
	logger  *logging.Logger
}

// New creates a device client.
//
// Parameters:
//   - cfg: Device connection settings (host, timeout, retry policy)
//   - logger: Logger for request diagnostics
//
// Returns:
//   - *Client: Ready-to-use client
//   - error: If the host URL is missing or malformed
func New(cfg config.DeviceConfig, logger *logging.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("freesleep: device host is required")
	}
	if _, err := url.Parse(cfg.Host); err != nil {
		return nil, fmt.Errorf("freesleep: parsing device host: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Host, "/"),
		http: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		retry:  cfg.Retry,
		logger: logger.With("component", "freesleep"),
	}, nil
}

// get issues a GET and decodes the JSON response into out.
// GETs are idempotent and retried on network-class failures.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, true, out)
}

// post issues a POST with a JSON body. Retry behaviour follows the
// idempotent flag; the response body is discarded (the device answers
// writes with 200/204 and no useful payload).
func (c *Client) post(ctx context.Context, path string, body any, idempotent bool) error {
	return c.do(ctx, http.MethodPost, path, nil, body, idempotent, nil)
}

// do runs one logical request, retrying network-class failures with
// exponential backoff when the operation is idempotent.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, idempotent bool, out any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("freesleep: encoding request body: %w", err)
		}
	}

	attempts := c.retry.MaxAttempts
	if attempts < 1 || !idempotent {
		attempts = 1
	}

	delay := c.retry.InitialRetryDelay()
	maxDelay := c.retry.MaxRetryDelay()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				// A deliberate cancel is not a device failure.
				return fmt.Errorf("freesleep: request cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if maxDelay > 0 && delay > maxDelay {
				delay = maxDelay
			}
		}

		err := c.doOnce(ctx, method, path, query, encoded, out)
		if err == nil {
			return nil
		}
		lastErr = err

		// Only network-class failures are worth another attempt.
		if !isRetryable(err) {
			return err
		}

		if attempt < attempts {
			c.logger.Warn("device request failed, retrying",
				"method", method,
				"path", path,
				"attempt", attempt,
				"error", err,
			)
		}
	}

	return lastErr
}

// doOnce performs a single HTTP round trip and classifies the outcome.
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("freesleep: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", ErrUnavailable, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize)) //nolint:errcheck // Detail is advisory
		return fmt.Errorf("%w: %s %s: status %d: %s",
			ErrDeviceRejected, method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("freesleep: decoding response from %s: %w", path, err)
	}
	return nil
}

// isRetryable reports whether an error is a network-class failure.
func isRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
