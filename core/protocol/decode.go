package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/koscakluka/ema-realtime/core/events"
)

type serverEnvelope struct {
	Type string `json:"type"`
}

// Decode parses one inbound text frame into a typed event. Unknown types
// decode to [events.Unrecognized]; anything that cannot be trusted wraps
// [ErrMalformedMessage].
func Decode(data []byte) (events.Event, error) {
	var envelope serverEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	switch envelope.Type {
	case TypeSessionCreated, TypeSessionUpdated:
		var msg struct {
			Session *struct {
				ID    string `json:"id"`
				Model string `json:"model"`
			} `json:"session"`
		}
		if err := unmarshal(envelope.Type, data, &msg); err != nil {
			return nil, err
		}
		var sessionID, model string
		if msg.Session != nil {
			sessionID, model = msg.Session.ID, msg.Session.Model
		}
		if envelope.Type == TypeSessionCreated {
			return events.NewSessionCreated(sessionID, model), nil
		}
		return events.NewSessionUpdated(sessionID), nil

	case TypeResponseCreated, TypeResponseDone:
		var msg struct {
			Response *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"response"`
		}
		if err := unmarshal(envelope.Type, data, &msg); err != nil {
			return nil, err
		}
		var responseID, status string
		if msg.Response != nil {
			responseID, status = msg.Response.ID, msg.Response.Status
		}
		if envelope.Type == TypeResponseCreated {
			return events.NewResponseCreated(responseID), nil
		}
		return events.NewResponseDone(responseID, status), nil

	case TypeResponseOutputAudioDelta, typeLegacyResponseAudioDelta:
		msg, err := unmarshalDelta(envelope.Type, data)
		if err != nil {
			return nil, err
		}
		if *msg.Delta == "" {
			return nil, fmt.Errorf("%w: %s has empty delta", ErrMalformedMessage, envelope.Type)
		}
		audio, err := base64.StdEncoding.DecodeString(*msg.Delta)
		if err != nil {
			return nil, fmt.Errorf("%w: %s delta is not base64: %w", ErrMalformedMessage, envelope.Type, err)
		}
		return events.NewAudioDelta(msg.ResponseID, audio), nil

	// Text-only responses stream the same way as audio transcripts.
	case TypeResponseOutputAudioTranscriptDelta, typeLegacyResponseAudioTranscriptDelta,
		TypeResponseOutputTextDelta, typeLegacyResponseTextDelta:
		msg, err := unmarshalDelta(envelope.Type, data)
		if err != nil {
			return nil, err
		}
		return events.NewTranscriptDelta(msg.ResponseID, *msg.Delta), nil

	case TypeInputAudioBufferSpeechStarted:
		var msg struct {
			ItemID       string `json:"item_id"`
			AudioStartMs int    `json:"audio_start_ms"`
		}
		if err := unmarshal(envelope.Type, data, &msg); err != nil {
			return nil, err
		}
		return events.NewSpeechStarted(msg.ItemID, msg.AudioStartMs), nil

	case TypeInputAudioBufferSpeechStopped:
		var msg struct {
			ItemID     string `json:"item_id"`
			AudioEndMs int    `json:"audio_end_ms"`
		}
		if err := unmarshal(envelope.Type, data, &msg); err != nil {
			return nil, err
		}
		return events.NewSpeechStopped(msg.ItemID, msg.AudioEndMs), nil

	case TypeError:
		var msg struct {
			Error *struct {
				Type    string `json:"type"`
				Code    string `json:"code"`
				Message string `json:"message"`
				EventID string `json:"event_id"`
			} `json:"error"`
		}
		if err := unmarshal(envelope.Type, data, &msg); err != nil {
			return nil, err
		}
		if msg.Error == nil {
			return nil, fmt.Errorf("%w: error without payload", ErrMalformedMessage)
		}
		return events.NewError(msg.Error.Type, msg.Error.Code, msg.Error.Message, msg.Error.EventID), nil

	default:
		return events.NewUnrecognized(envelope.Type), nil
	}
}

type deltaMessage struct {
	ResponseID string  `json:"response_id"`
	Delta      *string `json:"delta"`
}

func unmarshalDelta(messageType string, data []byte) (deltaMessage, error) {
	var msg deltaMessage
	if err := unmarshal(messageType, data, &msg); err != nil {
		return msg, err
	}
	if msg.Delta == nil {
		return msg, fmt.Errorf("%w: %s without delta", ErrMalformedMessage, messageType)
	}
	return msg, nil
}

func unmarshal(messageType string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedMessage, messageType, err)
	}
	return nil
}
