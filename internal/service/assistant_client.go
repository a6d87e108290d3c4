package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"concierge/internal/config"
	"concierge/internal/model"
	"concierge/internal/utils"
)

// AssistantClient talks to the conversational backend
type AssistantClient struct {
	config     *config.AssistantConfig
	httpClient *http.Client
}

// NewAssistantClient creates a client for the backend at cfg.BaseURL
func NewAssistantClient(cfg *config.AssistantConfig) *AssistantClient {
	return &AssistantClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Chat posts the user message and returns the raw response text
func (c *AssistantClient) Chat(ctx context.Context, message string) (string, error) {
	reqBody, err := json.Marshal(model.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant request failed with status %d: %s", resp.StatusCode, utils.TruncateString(string(body), 200))
	}

	return string(body), nil
}
