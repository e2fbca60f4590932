package services

import (
	"context"

	"shopassist-backend/internal/models"
)

// CompletionProvider is the seam to the external completion API. Complete
// forwards the full ordered message sequence (system message first) and
// returns the reply text of a single non-streaming completion.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}
