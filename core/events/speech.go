package events

const (
	// KindSpeechStarted identifies start of user speech activity.
	KindSpeechStarted Kind = "input.speech_started"
	// KindSpeechStopped identifies end of user speech activity.
	KindSpeechStopped Kind = "input.speech_stopped"
)

// SpeechStarted marks when the server detected the user starting to speak.
type SpeechStarted struct {
	Base
	ItemID       string
	AudioStartMs int
}

// NewSpeechStarted creates a speech started event.
func NewSpeechStarted(itemID string, audioStartMs int) SpeechStarted {
	return SpeechStarted{Base: NewBase(KindSpeechStarted), ItemID: itemID, AudioStartMs: audioStartMs}
}

// SpeechStopped marks when the server detected the user stopping speaking.
type SpeechStopped struct {
	Base
	ItemID     string
	AudioEndMs int
}

// NewSpeechStopped creates a speech stopped event.
func NewSpeechStopped(itemID string, audioEndMs int) SpeechStopped {
	return SpeechStopped{Base: NewBase(KindSpeechStopped), ItemID: itemID, AudioEndMs: audioEndMs}
}
