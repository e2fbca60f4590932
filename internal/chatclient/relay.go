package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopassist-backend/internal/models"
)

const defaultRelayTimeout = 60 * time.Second

// RelayClient consumes the backend's POST /chat contract.
type RelayClient struct {
	client  *http.Client
	baseURL string
}

func NewRelayClient(baseURL string, timeout time.Duration) *RelayClient {
	if timeout == 0 {
		timeout = defaultRelayTimeout
	}
	return &RelayClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *RelayClient) CompleteChat(ctx context.Context, messages []models.ChatMessage, storeInfo string) (string, error) {
	payload, err := json.Marshal(models.ChatRequest{
		Messages:  messages,
		StoreInfo: storeInfo,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	var parsed models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return parsed.Reply, nil
}
