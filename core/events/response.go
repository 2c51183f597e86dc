package events

const (
	// KindResponseCreated identifies the start of a server response.
	KindResponseCreated Kind = "response.created"
	// KindResponseDone identifies the end of a server response.
	KindResponseDone Kind = "response.done"
	// KindAudioDelta identifies a streamed response audio chunk.
	KindAudioDelta Kind = "response.audio_delta"
	// KindTranscriptDelta identifies streamed response transcript text.
	KindTranscriptDelta Kind = "response.transcript_delta"
)

// ResponseCreated marks the start of a server response.
type ResponseCreated struct {
	Base
	ResponseID string
}

// NewResponseCreated creates a response created event.
func NewResponseCreated(responseID string) ResponseCreated {
	return ResponseCreated{Base: NewBase(KindResponseCreated), ResponseID: responseID}
}

// ResponseDone marks the end of a server response. Status is reported by
// the server, e.g. "completed", "cancelled", "incomplete" or "failed".
type ResponseDone struct {
	Base
	ResponseID string
	Status     string
}

// NewResponseDone creates a response done event.
func NewResponseDone(responseID, status string) ResponseDone {
	return ResponseDone{Base: NewBase(KindResponseDone), ResponseID: responseID, Status: status}
}

// AudioDelta carries a decoded chunk of response audio.
type AudioDelta struct {
	Base
	ResponseID string
	Audio      []byte
}

// NewAudioDelta creates a response audio chunk event.
func NewAudioDelta(responseID string, audio []byte) AudioDelta {
	return AudioDelta{Base: NewBase(KindAudioDelta), ResponseID: responseID, Audio: audio}
}

// TranscriptDelta carries an append-only piece of the response transcript.
type TranscriptDelta struct {
	Base
	ResponseID string
	Text       string
}

// NewTranscriptDelta creates a response transcript chunk event.
func NewTranscriptDelta(responseID, text string) TranscriptDelta {
	return TranscriptDelta{Base: NewBase(KindTranscriptDelta), ResponseID: responseID, Text: text}
}
