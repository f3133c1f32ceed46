// Package n8n provides the client for the n8n webhook upstream and the
// normalizer that turns its loosely-structured replies into display text.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Request is the payload posted to the webhook.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// Response is the outcome of a webhook call. OK is false for network-level
// failures and non-2xx statuses alike; the caller feeds it to Normalize
// instead of treating it as an error.
type Response struct {
	Body       string
	StatusCode int
	OK         bool
}

// Client is the n8n webhook client.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new webhook client with a bounded timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Call posts a message to the webhook at url. The upstream is an
// uncontrolled third party, so every failure mode degrades to OK=false
// rather than an error.
func (c *Client) Call(ctx context.Context, url string, req Request) Response {
	body, err := json.Marshal(req)
	if err != nil {
		c.logger.Error("failed to marshal webhook request", zap.Error(err))
		return Response{OK: false}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to create webhook request", zap.Error(err), zap.String("url", url))
		return Response{OK: false}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("webhook request failed", zap.Error(err), zap.String("url", url))
		return Response{OK: false}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read webhook response", zap.Error(err))
		return Response{StatusCode: resp.StatusCode, OK: false}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		c.logger.Error("webhook returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
	} else {
		c.logger.Info("webhook response received",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_length", len(respBody)))
	}

	return Response{
		Body:       string(respBody),
		StatusCode: resp.StatusCode,
		OK:         ok,
	}
}

// Timestamp formats t the way the webhook expects issue timestamps.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
