package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"shopassist-backend/internal/models"
)

// chatCompleter is what the handler needs from the relay service.
type chatCompleter interface {
	CompleteChat(ctx context.Context, messages []models.ChatMessage, storeInfo string) (string, error)
}

type ChatHandler struct {
	chatService chatCompleter
}

func NewChatHandler(chatService chatCompleter) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Complete handles POST /chat: forward the conversation to the completion
// provider and answer with the generated reply. Upstream failures are logged
// with detail server-side and surfaced to the client as a generic error.
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case models.RoleSystem, models.RoleUser, models.RoleAssistant:
		default:
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown message role", r))
			return
		}
	}

	reply, err := h.chatService.CompleteChat(r.Context(), req.Messages, req.StoreInfo)
	if err != nil {
		log.Printf("chat completion failed (request %s): %v", r.Header.Get("X-Request-ID"), err)
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Error generating response", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
