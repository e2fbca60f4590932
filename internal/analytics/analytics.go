package analytics

import "log"

// Event names emitted by the chat widget.
const (
	EventChatbotLoaded      = "chatbot_loaded"
	EventChatOpened         = "chat_opened"
	EventMessageSent        = "message_sent"
	EventMessageReceived    = "message_received"
	EventConversationLength = "conversation_length"
)

// Config identifies the embedding client. It is injected at session
// construction; nothing reads it off a shared mutable namespace.
type Config struct {
	Client        string
	WidgetVersion string
}

type Event struct {
	Name          string
	SessionID     string
	Client        string
	WidgetVersion string
	Params        map[string]interface{}
}

type Tracker interface {
	Track(event Event)
}

// LogTracker writes events to the process log.
type LogTracker struct {
	cfg Config
}

func NewLogTracker(cfg Config) *LogTracker {
	if cfg.Client == "" {
		cfg.Client = "self_hosted"
	}
	if cfg.WidgetVersion == "" {
		cfg.WidgetVersion = "dev"
	}
	return &LogTracker{cfg: cfg}
}

func (t *LogTracker) Track(event Event) {
	if event.Client == "" {
		event.Client = t.cfg.Client
	}
	if event.WidgetVersion == "" {
		event.WidgetVersion = t.cfg.WidgetVersion
	}
	log.Printf("analytics: %s session=%s client=%s widget=%s params=%v",
		event.Name, event.SessionID, event.Client, event.WidgetVersion, event.Params)
}

// NopTracker drops every event.
type NopTracker struct{}

func (NopTracker) Track(Event) {}
