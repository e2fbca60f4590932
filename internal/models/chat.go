package models

// Message roles accepted on the wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint. StoreInfo is an
// opaque text blob describing the store; it is interpolated verbatim into
// the system instruction and no schema is enforced on it.
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	StoreInfo string        `json:"storeInfo"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}
