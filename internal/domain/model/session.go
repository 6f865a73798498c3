package model

import "time"

// Connection is the transport-level identity of one live socket. The core
// treats it as an opaque comparable key plus a fire-and-forget event sink;
// Send must never block the caller and must be safe after the peer is gone.
type Connection interface {
	ID() string
	Send(event string, payload any) error
}

// Session binds a logged-in username to its connection. Exactly one Session
// per username and per connection; owned exclusively by the presence
// registry.
type Session struct {
	Username string
	Conn     Connection
	JoinedAt time.Time
}

func NewSession(username string, conn Connection) *Session {
	return &Session{
		Username: username,
		Conn:     conn,
		JoinedAt: time.Now(),
	}
}
