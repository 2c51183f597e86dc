package events

const (
	// KindError identifies a server-reported error.
	KindError Kind = "error"
	// KindUnrecognized identifies a well-formed message of an unmodelled type.
	KindUnrecognized Kind = "unrecognized"
)

// Error carries a server-reported error payload.
type Error struct {
	Base
	Type    string
	Code    string
	Message string
	// EventID references the client event that caused the error, if any.
	EventID string
}

// NewError creates a server error event.
func NewError(errorType, code, message, eventID string) Error {
	return Error{Base: NewBase(KindError), Type: errorType, Code: code, Message: message, EventID: eventID}
}

// Unrecognized wraps a message whose type is not modelled.
type Unrecognized struct {
	Base
	Type string
}

// NewUnrecognized creates an unrecognized event for the given wire type.
func NewUnrecognized(messageType string) Unrecognized {
	return Unrecognized{Base: NewBase(KindUnrecognized), Type: messageType}
}
