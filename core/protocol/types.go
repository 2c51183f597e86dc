package protocol

// Client event types.
const (
	TypeSessionUpdate          = "session.update"
	TypeInputAudioBufferAppend = "input_audio_buffer.append"
	TypeInputAudioBufferCommit = "input_audio_buffer.commit"
	TypeInputAudioBufferClear  = "input_audio_buffer.clear"
	TypeResponseCreate         = "response.create"
	TypeResponseCancel         = "response.cancel"
	TypeConversationItemCreate = "conversation.item.create"
)

// Server event types.
const (
	TypeSessionCreated                     = "session.created"
	TypeSessionUpdated                     = "session.updated"
	TypeResponseCreated                    = "response.created"
	TypeResponseDone                       = "response.done"
	TypeResponseOutputAudioDelta           = "response.output_audio.delta"
	TypeResponseOutputAudioTranscriptDelta = "response.output_audio_transcript.delta"
	TypeResponseOutputTextDelta            = "response.output_text.delta"
	TypeInputAudioBufferSpeechStarted      = "input_audio_buffer.speech_started"
	TypeInputAudioBufferSpeechStopped      = "input_audio_buffer.speech_stopped"
	TypeError                              = "error"

	// Names used by the preview API for the same events.
	typeLegacyResponseAudioDelta           = "response.audio.delta"
	typeLegacyResponseAudioTranscriptDelta = "response.audio_transcript.delta"
	typeLegacyResponseTextDelta            = "response.text.delta"
)

// Error codes the server uses when local and remote response state race.
// They are harmless and reported at debug level.
const (
	ErrorCodeResponseCancelNotActive              = "response_cancel_not_active"
	ErrorCodeConversationAlreadyHasActiveResponse = "conversation_already_has_active_response"
)

// Audio format types understood by the session.
const (
	AudioFormatPCM  = "audio/pcm"
	AudioFormatPCMU = "audio/pcmu"
	AudioFormatPCMA = "audio/pcma"
)

type AudioFormat struct {
	Type string
	// Rate is only sent for PCM; the G.711 formats are fixed at 8 kHz.
	Rate int
}

type TurnDetectionMode string

const (
	TurnDetectionSemanticVAD TurnDetectionMode = "semantic_vad"
	TurnDetectionServerVAD   TurnDetectionMode = "server_vad"
	// TurnDetectionNone disables server turn detection, callers commit the
	// input buffer themselves.
	TurnDetectionNone TurnDetectionMode = "none"
)

// Server VAD defaults.
const (
	DefaultVADThreshold         = 0.5
	DefaultVADPrefixPaddingMs   = 300
	DefaultVADSilenceDurationMs = 200
)

type TurnDetection struct {
	Mode TurnDetectionMode

	// Server VAD tuning, ignored for other modes.
	Threshold         float64
	PrefixPaddingMs   int
	SilenceDurationMs int

	// Eagerness tunes semantic VAD ("low", "medium", "high" or "auto").
	Eagerness string
}

// ServerVAD returns server VAD turn detection with the default tuning.
func ServerVAD() TurnDetection {
	return TurnDetection{
		Mode:              TurnDetectionServerVAD,
		Threshold:         DefaultVADThreshold,
		PrefixPaddingMs:   DefaultVADPrefixPaddingMs,
		SilenceDurationMs: DefaultVADSilenceDurationMs,
	}
}

// SessionConfig is the snapshot sent with the initial session.update of a
// connection. It is not changed for the lifetime of the connection.
type SessionConfig struct {
	Model        string
	Voice        string
	Instructions string

	InputFormat   AudioFormat
	OutputFormat  AudioFormat
	TurnDetection TurnDetection

	OutputModalities []string

	// TranscriptionModel enables transcription of the user's input audio
	// when set. Language is passed as a hint alongside it.
	TranscriptionModel string
	Language           string
}
