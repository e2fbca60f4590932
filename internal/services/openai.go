package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopassist-backend/internal/models"
)

const defaultOpenAITimeout = 30 * time.Second

// OpenAIProvider calls the OpenAI Chat Completions API. The bearer credential
// stays server-side; callers only ever see the extracted reply text or a
// wrapped error.
type OpenAIProvider struct {
	client  *http.Client
	apiKey  string
	base    string
	model   string
	timeout time.Duration
}

func NewOpenAIProvider(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key must be provided")
	}
	if model == "" {
		return nil, fmt.Errorf("openai model must be provided")
	}
	if timeout == 0 {
		timeout = defaultOpenAITimeout
	}
	return &OpenAIProvider{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		base:    strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
	}, nil
}

type openAIChatRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete requests one non-streaming completion and returns the first
// choice's message content.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	payload, err := json.Marshal(openAIChatRequest{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
