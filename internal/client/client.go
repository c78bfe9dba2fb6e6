// Package client calls the backend text-generation endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

// Client posts timer context to /api/openai.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate requests a message for the given timer context.
func (c *Client) Generate(ctx context.Context, req timer.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/openai", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	var payload timer.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, payload.Error)
	}

	return strings.TrimSpace(payload.Message), nil
}
