package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"shopassist-backend/internal/models"
)

// GeminiProvider serves completions through the Gemini API. The chat history
// is replayed as a Gemini chat session with the system message attached as
// the system instruction.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiProvider(apiKey, modelName string, timeout time.Duration) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if timeout == 0 {
		timeout = defaultOpenAITimeout
	}
	return &GeminiProvider{client: client, modelName: modelName, timeout: timeout}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SetTemperature(0.3)

	rest := messages
	if len(rest) > 0 && rest[0].Role == models.RoleSystem {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(rest[0].Content)},
		}
		rest = rest[1:]
	}

	// Gemini wants the last turn sent separately from the history.
	prompt := ""
	if len(rest) > 0 {
		prompt = rest[len(rest)-1].Content
		rest = rest[:len(rest)-1]
	}

	cs := model.StartChat()
	cs.History = make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
