package services

import (
	"context"

	"shopassist-backend/internal/models"
)

// systemPromptTemplate is the fixed instruction the relay prepends to every
// conversation. The store info supplied by the widget is appended verbatim.
const systemPromptTemplate = "You are a helpful, concise AI support assistant for an Ecommerce brand. " +
	"Only answer questions based on the store info provided. " +
	"If unsure, politely guide the user to schedule a call or visit the website. " +
	"Stay on topic and avoid unnecessary details.\n\n"

// ChatService assembles the system instruction and forwards the conversation
// to the configured completion provider.
type ChatService struct {
	provider CompletionProvider
}

func NewChatService(provider CompletionProvider) *ChatService {
	return &ChatService{provider: provider}
}

// CompleteChat prepends exactly one system message built from storeInfo and
// forwards the conversation in order. Client-supplied system messages are
// dropped; the relay always speaks for itself.
func (s *ChatService) CompleteChat(ctx context.Context, messages []models.ChatMessage, storeInfo string) (string, error) {
	full := make([]models.ChatMessage, 0, len(messages)+1)
	full = append(full, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: BuildSystemPrompt(storeInfo),
	})
	for _, msg := range messages {
		if msg.Role == models.RoleSystem {
			continue
		}
		full = append(full, msg)
	}

	return s.provider.Complete(ctx, full)
}

// BuildSystemPrompt interpolates the store info into the fixed instruction
// template. An empty storeInfo is a valid "no context" value.
func BuildSystemPrompt(storeInfo string) string {
	return systemPromptTemplate + storeInfo
}
