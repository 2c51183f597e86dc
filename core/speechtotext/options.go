package speechtotext

import "time"

const (
	DefaultTimeout = 30 * time.Second
	// DefaultChunkSize is 100 ms of 16-bit mono audio at 24 kHz.
	DefaultChunkSize = 4800
)

type TranscriptionOptions struct {
	// PartialTranscriptionCallback is called with every piece of the
	// transcript as it arrives.
	PartialTranscriptionCallback func(transcript string)

	// Timeout bounds how long to wait without hearing from the server once
	// the audio has been committed.
	Timeout   time.Duration
	ChunkSize int
}

type TranscriptionOption func(*TranscriptionOptions)

func WithPartialTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if callback != nil {
			o.PartialTranscriptionCallback = callback
		}
	}
}

func WithTimeout(timeout time.Duration) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

func WithChunkSize(size int) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}
