package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"shopassist-backend/internal/analytics"
	"shopassist-backend/internal/models"
)

// Display senders.
const (
	SenderBot = "Bot"
	SenderYou = "You"
)

const welcomeText = "Hi there! 👋 I'm your AI assistant. Feel free to ask me anything about our products, shipping, or return policies!"

// fallbackText is shown when a relay call fails. It is display-only and
// never enters the API-shaped transcript, so later calls cannot feed it back
// to the model as if the model had said it.
const fallbackText = "That was unexpected. Please try again."

// ErrTurnInFlight is returned when a send arrives while the previous turn is
// still awaiting its reply. The session allows one in-flight turn at a time.
var ErrTurnInFlight = errors.New("a turn is already awaiting its reply")

// DisplayMessage is one visible transcript entry.
type DisplayMessage struct {
	Sender string
	Text   string
}

// SessionContext identifies one widget session. Created once per session,
// read-only thereafter.
type SessionContext struct {
	ID            uuid.UUID
	Client        string
	WidgetVersion string
}

func NewSessionContext(client, widgetVersion string) SessionContext {
	return SessionContext{
		ID:            uuid.New(),
		Client:        client,
		WidgetVersion: widgetVersion,
	}
}

// relayCaller is what the session needs from the relay.
type relayCaller interface {
	CompleteChat(ctx context.Context, messages []models.ChatMessage, storeInfo string) (string, error)
}

// Options configures a session at construction time.
type Options struct {
	StoreInfo string
	Tracker   analytics.Tracker
	// OnChange fires after every transcript mutation; the embedding UI
	// re-renders and scrolls to the latest message from here.
	OnChange func()
}

// Session owns one conversation: the display transcript shown to the visitor
// and the API-shaped transcript sent to the relay.
type Session struct {
	relay     relayCaller
	sctx      SessionContext
	storeInfo string
	tracker   analytics.Tracker
	onChange  func()

	mu      sync.Mutex
	display []DisplayMessage
	history []models.ChatMessage
	typing  bool
	greeted bool
}

func NewSession(relay relayCaller, sctx SessionContext, opts Options) *Session {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = analytics.NopTracker{}
	}

	s := &Session{
		relay:     relay,
		sctx:      sctx,
		storeInfo: opts.StoreInfo,
		tracker:   tracker,
		onChange:  opts.OnChange,
	}
	s.track(analytics.EventChatbotLoaded, nil)
	return s
}

// Open records that the visitor opened the chat window.
func (s *Session) Open() {
	s.track(analytics.EventChatOpened, nil)
}

// End records the conversation length when the visitor closes the chat.
func (s *Session) End() {
	s.mu.Lock()
	total := len(s.history)
	s.mu.Unlock()

	if total > 0 {
		s.track(analytics.EventConversationLength, map[string]interface{}{"total_messages": total})
	}
}

// Greet appends the welcome turn once. It goes into both transcripts so the
// model sees the assistant introduced itself.
func (s *Session) Greet() {
	s.mu.Lock()
	if s.greeted {
		s.mu.Unlock()
		return
	}
	s.greeted = true
	s.display = append(s.display, DisplayMessage{Sender: SenderBot, Text: welcomeText})
	s.history = append(s.history, models.ChatMessage{Role: models.RoleAssistant, Content: welcomeText})
	s.mu.Unlock()

	s.notify()
}

// SendTurn appends a user turn, calls the relay and appends the reply.
// Blank input is a no-op. While a turn awaits its reply further sends return
// ErrTurnInFlight. A relay failure appends the fallback apology to the
// display transcript only and returns nil; the turn is considered handled.
func (s *Session) SendTurn(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.typing = true
	s.display = append(s.display, DisplayMessage{Sender: SenderYou, Text: text})
	s.history = append(s.history, models.ChatMessage{Role: models.RoleUser, Content: text})
	apiCopy := make([]models.ChatMessage, len(s.history))
	copy(apiCopy, s.history)
	s.mu.Unlock()

	s.notify()
	s.track(analytics.EventMessageSent, map[string]interface{}{"message_length": len(text)})

	reply, err := s.relay.CompleteChat(ctx, apiCopy, s.storeInfo)

	s.mu.Lock()
	s.typing = false
	if err != nil {
		s.display = append(s.display, DisplayMessage{Sender: SenderBot, Text: fallbackText})
	} else {
		s.display = append(s.display, DisplayMessage{Sender: SenderBot, Text: reply})
		s.history = append(s.history, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	}
	s.mu.Unlock()

	s.notify()
	if err == nil {
		s.track(analytics.EventMessageReceived, map[string]interface{}{"reply_length": len(reply)})
	}
	return nil
}

// DisplayTranscript returns a copy of the visible transcript.
func (s *Session) DisplayTranscript() []DisplayMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DisplayMessage, len(s.display))
	copy(out, s.display)
	return out
}

// History returns a copy of the API-shaped transcript.
func (s *Session) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Typing reports whether a relay call is in flight.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// SuggestedQuestions are the canned openers offered by the widget.
func (s *Session) SuggestedQuestions() []string {
	return []string{
		"Where is my order?",
		"What's your return policy?",
		"How long is shipping?",
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Session) track(name string, params map[string]interface{}) {
	s.tracker.Track(analytics.Event{
		Name:          name,
		SessionID:     s.sctx.ID.String(),
		Client:        s.sctx.Client,
		WidgetVersion: s.sctx.WidgetVersion,
		Params:        params,
	})
}
