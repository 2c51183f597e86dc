package realtime

import (
	"errors"
	"fmt"

	"github.com/koscakluka/ema-realtime/core/protocol"
)

var (
	// ErrConnectFailure is returned by [Client.Connect] when the transport
	// cannot be opened or the session cannot be configured.
	ErrConnectFailure = errors.New("failed to connect to realtime session")
	// ErrNotConnected is logged when a command is issued without an active
	// connection. The command is dropped.
	ErrNotConnected = errors.New("not connected")
	// ErrTimeout is returned by the adapters when no response completes
	// within their bounded wait.
	ErrTimeout       = errors.New("timed out waiting for response")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// RemoteError is an error reported by the server in an error event.
type RemoteError struct {
	Type    string
	Code    string
	Message string
	// EventID is the client event the error refers to, if any.
	EventID string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("realtime server error (%s): %s", e.Type, e.Message)
	}
	return fmt.Sprintf("realtime server error (%s/%s): %s", e.Type, e.Code, e.Message)
}

// Benign reports whether the error is the result of local and remote
// response state racing, which needs no action.
func (e *RemoteError) Benign() bool {
	switch e.Code {
	case protocol.ErrorCodeResponseCancelNotActive,
		protocol.ErrorCodeConversationAlreadyHasActiveResponse:
		return true
	}
	return false
}
