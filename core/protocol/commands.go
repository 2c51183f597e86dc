package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Command is an outbound client event.
type Command interface {
	Type() string
}

type UpdateSession struct{ Session SessionConfig }

func (UpdateSession) Type() string { return TypeSessionUpdate }

type AppendAudio struct{ Audio []byte }

func (AppendAudio) Type() string { return TypeInputAudioBufferAppend }

type CommitAudio struct{}

func (CommitAudio) Type() string { return TypeInputAudioBufferCommit }

type ClearAudioBuffer struct{}

func (ClearAudioBuffer) Type() string { return TypeInputAudioBufferClear }

type CreateResponse struct{}

func (CreateResponse) Type() string { return TypeResponseCreate }

type CancelResponse struct{}

func (CancelResponse) Type() string { return TypeResponseCancel }

// CreateConversationItem adds a user text message to the conversation.
type CreateConversationItem struct{ Text string }

func (CreateConversationItem) Type() string { return TypeConversationItemCreate }

var newEventID = uuid.NewString

type clientEvent struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

type sessionUpdateEvent struct {
	clientEvent
	Session session `json:"session"`
}

type session struct {
	Type             string   `json:"type"`
	Model            string   `json:"model,omitempty"`
	OutputModalities []string `json:"output_modalities,omitempty"`
	Instructions     string   `json:"instructions,omitempty"`
	Audio            struct {
		Input  audioInput  `json:"input"`
		Output audioOutput `json:"output"`
	} `json:"audio"`
}

type audioFormat struct {
	Type string `json:"type"`
	Rate int    `json:"rate,omitempty"`
}

type audioInput struct {
	Format audioFormat `json:"format"`
	// TurnDetection is sent as null to disable server turn detection.
	TurnDetection *turnDetection `json:"turn_detection"`
	Transcription *transcription `json:"transcription,omitempty"`
}

type audioOutput struct {
	Format audioFormat `json:"format"`
	Voice  string      `json:"voice,omitempty"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
	Eagerness         string  `json:"eagerness,omitempty"`
}

type transcription struct {
	Model    string `json:"model"`
	Language string `json:"language,omitempty"`
}

type appendAudioEvent struct {
	clientEvent
	Audio string `json:"audio"`
}

type conversationItemCreateEvent struct {
	clientEvent
	Item conversationItem `json:"item"`
}

type conversationItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Encode serializes a command into a single text frame. Every frame gets a
// fresh client event id so server errors can be traced back to it.
func Encode(cmd Command) ([]byte, error) {
	header := clientEvent{EventID: newEventID(), Type: cmd.Type()}

	var msg any
	switch c := cmd.(type) {
	case UpdateSession:
		msg = sessionUpdateEvent{clientEvent: header, Session: toWireSession(c.Session)}
	case AppendAudio:
		msg = appendAudioEvent{clientEvent: header, Audio: base64.StdEncoding.EncodeToString(c.Audio)}
	case CreateConversationItem:
		msg = conversationItemCreateEvent{
			clientEvent: header,
			Item: conversationItem{
				Type:    "message",
				Role:    "user",
				Content: []contentPart{{Type: "input_text", Text: c.Text}},
			},
		}
	case CommitAudio, ClearAudioBuffer, CreateResponse, CancelResponse:
		msg = header
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", cmd.Type(), err)
	}
	return data, nil
}

func toWireSession(config SessionConfig) session {
	s := session{
		Type:             "realtime",
		Model:            config.Model,
		OutputModalities: config.OutputModalities,
		Instructions:     config.Instructions,
	}

	s.Audio.Input.Format = toWireAudioFormat(config.InputFormat)
	s.Audio.Input.TurnDetection = toWireTurnDetection(config.TurnDetection)
	if config.TranscriptionModel != "" {
		s.Audio.Input.Transcription = &transcription{
			Model:    config.TranscriptionModel,
			Language: config.Language,
		}
	}

	s.Audio.Output.Format = toWireAudioFormat(config.OutputFormat)
	s.Audio.Output.Voice = config.Voice

	return s
}

func toWireAudioFormat(format AudioFormat) audioFormat {
	if format.Type == "" {
		format.Type = AudioFormatPCM
	}
	if format.Type != AudioFormatPCM {
		format.Rate = 0
	}
	return audioFormat{Type: format.Type, Rate: format.Rate}
}

func toWireTurnDetection(detection TurnDetection) *turnDetection {
	switch detection.Mode {
	case TurnDetectionNone:
		return nil
	case TurnDetectionServerVAD:
		return &turnDetection{
			Type:              string(TurnDetectionServerVAD),
			Threshold:         detection.Threshold,
			PrefixPaddingMs:   detection.PrefixPaddingMs,
			SilenceDurationMs: detection.SilenceDurationMs,
		}
	default:
		return &turnDetection{
			Type:      string(TurnDetectionSemanticVAD),
			Eagerness: detection.Eagerness,
		}
	}
}
