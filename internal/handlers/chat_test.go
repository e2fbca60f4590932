package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopassist-backend/internal/models"
)

// stubCompleter stands in for the relay service.
type stubCompleter struct {
	reply        string
	err          error
	calls        int
	gotMessages  []models.ChatMessage
	gotStoreInfo string
}

func (s *stubCompleter) CompleteChat(_ context.Context, messages []models.ChatMessage, storeInfo string) (string, error) {
	s.calls++
	s.gotMessages = messages
	s.gotStoreInfo = storeInfo
	return s.reply, s.err
}

func postChat(t *testing.T, handler *ChatHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Complete(rr, req)
	return rr
}

func TestChatHandler_Success(t *testing.T) {
	stub := &stubCompleter{reply: "You can return within 7 days."}
	handler := NewChatHandler(stub)

	rr := postChat(t, handler, models.ChatRequest{
		Messages: []models.ChatMessage{
			{Role: "user", Content: "What is your return policy?"},
		},
		StoreInfo: "Return Policy: 7 days.",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply != "You can return within 7 days." {
		t.Errorf("Expected upstream reply, got %q", resp.Reply)
	}

	if stub.gotStoreInfo != "Return Policy: 7 days." {
		t.Errorf("Store info not forwarded, got %q", stub.gotStoreInfo)
	}
	if len(stub.gotMessages) != 1 || stub.gotMessages[0].Content != "What is your return policy?" {
		t.Errorf("Messages not forwarded intact: %+v", stub.gotMessages)
	}
}

func TestChatHandler_EmptyMessagesAccepted(t *testing.T) {
	stub := &stubCompleter{reply: "Hi! How can I help?"}
	handler := NewChatHandler(stub)

	rr := postChat(t, handler, models.ChatRequest{Messages: []models.ChatMessage{}})

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for empty messages, got %d", rr.Code)
	}
	if stub.calls != 1 {
		t.Errorf("Expected the empty transcript to be forwarded, got %d calls", stub.calls)
	}
}

func TestChatHandler_UpstreamFailureIsOpaque(t *testing.T) {
	stub := &stubCompleter{err: errors.New("openai returned status 401: invalid api key sk-secret")}
	handler := NewChatHandler(stub)

	rr := postChat(t, handler, models.ChatRequest{
		Messages: []models.ChatMessage{{Role: "user", Content: "hi"}},
	})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	body := rr.Body.String()
	if strings.Contains(body, "sk-secret") || strings.Contains(body, "401") {
		t.Errorf("Upstream detail leaked to client: %s", body)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error.Code != "AI_ERROR" {
		t.Errorf("Expected AI_ERROR code, got %q", resp.Error.Code)
	}
}

func TestChatHandler_InvalidBody(t *testing.T) {
	stub := &stubCompleter{}
	handler := NewChatHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.Complete(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rr.Code)
	}
	if stub.calls != 0 {
		t.Errorf("Expected no upstream call on bad body, got %d", stub.calls)
	}
}

func TestChatHandler_UnknownRoleRejected(t *testing.T) {
	stub := &stubCompleter{}
	handler := NewChatHandler(stub)

	rr := postChat(t, handler, models.ChatRequest{
		Messages: []models.ChatMessage{{Role: "wizard", Content: "abracadabra"}},
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown role, got %d", rr.Code)
	}
	if stub.calls != 0 {
		t.Errorf("Expected no upstream call, got %d", stub.calls)
	}
}
