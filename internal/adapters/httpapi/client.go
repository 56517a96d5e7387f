package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

// maxErrorBodySize bounds how much of a failed response is read for the detail field
const maxErrorBodySize = 1 << 20

// HealthResponse is the body returned by the classification service root endpoint
type HealthResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// errorResponse is the optional body of a non-2xx response
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// validationIssue is one entry of a list-valued detail field
type validationIssue struct {
	Msg string `json:"msg"`
}

// Client is an HTTP client for the classification endpoint
type Client struct {
	endpoint   string
	healthURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new classification endpoint client.
// A zero timeout leaves the call unbounded.
func NewClient(endpoint, healthURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:  endpoint,
		healthURL: healthURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Classify posts the text to the endpoint and decodes the classification response
func (c *Client) Classify(ctx context.Context, req core.ClassificationRequest) (*core.ClassificationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, core.NewTransportError(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewTransportError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Classification endpoint unreachable",
			zap.String("endpoint", c.endpoint),
			zap.Error(err))
		return nil, core.NewTransportError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug("Classification endpoint responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := c.readErrorDetail(resp.Body)
		return nil, core.NewApplicationError(
			resp.StatusCode,
			detail,
			fmt.Errorf("classification endpoint returned status %d", resp.StatusCode),
		)
	}

	var result core.ClassificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.NewTransportError(fmt.Errorf("failed to decode response: %w", err))
	}

	return &result, nil
}

// readErrorDetail extracts a human-readable detail from an error body.
// Returns an empty string when the body is absent or unparseable.
func (c *Client) readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil {
		c.logger.Debug("Error body is not JSON", zap.Error(err))
		return ""
	}

	return parseDetail(errResp.Detail)
}

// parseDetail accepts either a string detail or a list of validation issues
func parseDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err == nil {
		// Surfaced verbatim; blank falls back to the generic message
		if strings.TrimSpace(detail) == "" {
			return ""
		}
		return detail
	}

	var issues []validationIssue
	if err := json.Unmarshal(raw, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// Health checks that the classification service is up
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classification service returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
