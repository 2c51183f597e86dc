package texttospeech

import "time"

const DefaultTimeout = 30 * time.Second

type TextToSpeechOptions struct {
	// SpeechAudioCallback is called with every chunk of audio as it arrives,
	// before the complete recording is returned.
	SpeechAudioCallback func(audio []byte)

	// Timeout bounds how long to wait without hearing from the server once
	// the text has been sent.
	Timeout time.Duration
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithSpeechAudioCallback(callback func([]byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if callback != nil {
			o.SpeechAudioCallback = callback
		}
	}
}

func WithTimeout(timeout time.Duration) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}
