// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package api provides a client for the Zoom REST API endpoints used by the
// attendance service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
)

// ClientAPI defines the interface for Zoom API operations.
// This allows for easy mocking and testing of the Zoom client.
type ClientAPI interface {
	GetPastMeeting(ctx context.Context, meetingUID string) (*PastMeeting, error)
	GetMeetingParticipants(ctx context.Context, meetingUID string) ([]ReportParticipant, error)
}

const (
	// BaseURL is the base URL for Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// AuthURL is the OAuth token endpoint
	AuthURL = "https://zoom.us/oauth/token"
	// DefaultClientTimeout is the default HTTP client timeout for Zoom API requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Client represents a Zoom API client. The attendance service only reads
// from Zoom, so the client exposes GET operations exclusively.
type Client struct {
	config      Config
	oauthConfig *clientcredentials.Config
}

// Config holds the configuration for the Zoom client
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override auth URL for testing
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient creates a new Zoom API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	// Zoom Server-to-Server OAuth requires the account_credentials grant
	// with the account ID passed as a form parameter.
	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	return &Client{
		config:      config,
		oauthConfig: oauthConfig,
	}
}

// getAuthenticatedClient returns an HTTP client that automatically handles OAuth2 authentication
func (c *Client) getAuthenticatedClient(ctx context.Context) *http.Client {
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: c.oauthConfig.TokenSource(ctx),
		},
	}
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	// Retry on network/connection errors unless the context is done
	if err != nil {
		if ctxErr, ok := err.(interface{ Err() error }); ok {
			if ctxErr.Err() == context.Canceled || ctxErr.Err() == context.DeadlineExceeded {
				return false
			}
		}
		return true
	}

	// Retry on server errors (5xx) and rate limiting (429), never on other 4xx
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	return statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Jitter of up to ±25% to prevent thundering herd
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// getJSON performs an authenticated GET against the Zoom API with retries and
// unmarshals the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doGet(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}
	return nil
}

// doGet executes a GET request with exponential backoff on retryable failures.
func (c *Client) doGet(ctx context.Context, path string) (*http.Response, error) {
	requestURL := c.config.BaseURL + path
	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		slog.DebugContext(ctx, "making Zoom API request",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
		)

		startTime := time.Now()
		resp, err := c.getAuthenticatedClient(ctx).Do(req)
		duration := time.Since(startTime)

		if err == nil && resp != nil && !shouldRetry(resp.StatusCode, nil) {
			slog.DebugContext(ctx, "Zoom API request completed",
				"path", path,
				"status", resp.StatusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			return resp, nil
		}

		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		lastErr, lastResp = err, resp

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		if !shouldRetry(statusCode, err) {
			break
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "Zoom API request failed, retrying",
				"path", path,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				"backoff", backoff.String(),
				logging.ErrKey, err)

			select {
			case <-ctx.Done():
				if lastResp != nil {
					_ = lastResp.Body.Close()
				}
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if lastErr != nil {
		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		slog.ErrorContext(ctx, "Zoom API request failed after all retries",
			"path", path,
			"attempts", c.config.MaxRetries+1,
			logging.ErrKey, lastErr,
			logging.PriorityCritical())
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
	}

	slog.ErrorContext(ctx, "Zoom API request exhausted retries",
		"path", path,
		"status", lastResp.StatusCode,
		"attempts", c.config.MaxRetries+1,
		logging.PriorityCritical())
	return lastResp, nil
}

// parseErrorResponse attempts to parse a Zoom API error response
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("zoom API error (status %d, code %d): %s", statusCode, errResp.Code, errResp.Message)
	}
	return fmt.Errorf("zoom API error (status %d): %s", statusCode, bytes.TrimSpace(body))
}
