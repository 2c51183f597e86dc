package events

const (
	// KindSessionCreated identifies the server's session creation notice.
	KindSessionCreated Kind = "session.created"
	// KindSessionUpdated identifies the acknowledgement of a session update.
	KindSessionUpdated Kind = "session.updated"
)

// SessionCreated is sent once by the server right after the connection opens.
type SessionCreated struct {
	Base
	SessionID string
	Model     string
}

// NewSessionCreated creates a session created event.
func NewSessionCreated(sessionID, model string) SessionCreated {
	return SessionCreated{Base: NewBase(KindSessionCreated), SessionID: sessionID, Model: model}
}

// SessionUpdated acknowledges a session update.
type SessionUpdated struct {
	Base
	SessionID string
}

// NewSessionUpdated creates a session updated event.
func NewSessionUpdated(sessionID string) SessionUpdated {
	return SessionUpdated{Base: NewBase(KindSessionUpdated), SessionID: sessionID}
}
