package realtime

import (
	"context"

	"github.com/koscakluka/ema-realtime/core/events"
)

// dispatch applies a single server event. Events are dispatched one at a
// time in arrival order from the receive loop.
func (c *Client) dispatch(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.ResponseCreated:
		c.tracker.begin()
		logger.Debug("response created", "response_id", e.ResponseID)

	case events.AudioDelta:
		c.callbacks.audio()(e.Audio)

	case events.TranscriptDelta:
		if e.Text != "" {
			c.callbacks.transcript()(e.Text)
		}

	case events.ResponseDone:
		c.tracker.end()
		logger.Debug("response done", "response_id", e.ResponseID, "status", e.Status)
		c.callbacks.responseDone()()

	case events.SpeechStarted:
		c.userSpeaking.Store(true)
		c.callbacks.speechStarted()()
		// Cancel synchronously, before the next event is dispatched.
		if err := c.CancelResponse(ctx); err != nil {
			logger.Warn("failed to cancel response on speech start", "error", err)
		}

	case events.SpeechStopped:
		c.userSpeaking.Store(false)
		c.callbacks.speechStopped()()

	case events.Error:
		c.handleRemoteError(&RemoteError{
			Type:    e.Type,
			Code:    e.Code,
			Message: e.Message,
			EventID: e.EventID,
		})

	case events.SessionCreated:
		c.stateMu.Lock()
		c.sessionID = e.SessionID
		c.stateMu.Unlock()
		logger.Debug("session created", "session_id", e.SessionID, "model", e.Model)

	case events.SessionUpdated:
		logger.Debug("session updated", "session_id", e.SessionID)

	case events.Unrecognized:
		logger.Debug("ignoring unrecognized event", "type", e.Type)

	default:
		logger.Debug("ignoring event", "kind", event.Kind())
	}
}

func (c *Client) handleRemoteError(err *RemoteError) {
	if err.Benign() {
		logger.Debug("ignoring benign server error", "code", err.Code, "message", err.Message)
		return
	}

	logger.Error("realtime server error", "type", err.Type, "code", err.Code, "message", err.Message, "event_id", err.EventID)
	c.callbacks.failure()(err)
}
