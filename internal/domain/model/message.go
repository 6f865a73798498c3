package model

import (
	"github.com/oklog/ulid/v2"
)

type MessageKind string

const (
	KindText        MessageKind = "text"
	KindMention     MessageKind = "mention"
	KindMovie       MessageKind = "movie"
	KindAIChat      MessageKind = "ai_chat"
	KindAIResponse  MessageKind = "ai_response"
	KindCommandCard MessageKind = "command_card"
)

// MoviePayload accompanies KindMovie messages.
type MoviePayload struct {
	URL string `json:"url"`
}

// AIChatPayload accompanies the KindAIChat placeholder broadcast.
type AIChatPayload struct {
	Query string `json:"query"`
}

// Message is one chat room message. Immutable once created; the JSON field
// names are the wire format clients already speak.
type Message struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Text      string      `json:"message"`
	Timestamp int64       `json:"timestamp"` // client wallclock, milliseconds
	Kind      MessageKind `json:"type"`
	Payload   any         `json:"additional_data,omitempty"`
}

func NewMessage(username, text string, timestamp int64, kind MessageKind, payload any) Message {
	return Message{
		ID:        ulid.Make().String(),
		Username:  username,
		Text:      text,
		Timestamp: timestamp,
		Kind:      kind,
		Payload:   payload,
	}
}

// Durable reports whether the message belongs in history. Transient
// placeholders (the "thinking" ai_chat broadcast) and card events are not
// replayed to late joiners.
func (m Message) Durable() bool {
	switch m.Kind {
	case KindText, KindMention, KindMovie, KindAIResponse:
		return true
	default:
		return false
	}
}
