// Package speechtotext turns a realtime session into a "stream audio in,
// get text out" transcriber.
package speechtotext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SupportedLanguages are the language codes transcription is offered in.
var SupportedLanguages = []string{"en", "es", "fr", "de", "it", "pt", "nl", "pl", "ru", "ja", "ko", "zh"}

// RealtimeClient is the part of [realtime.Client] the transcriber uses.
type RealtimeClient interface {
	Connected() bool
	Connect(ctx context.Context) error
	SendAudio(ctx context.Context, audio []byte) error
	CommitAudio(ctx context.Context) error
	SetTranscriptCallback(callback func(text string))
	SetResponseDoneCallback(callback func())
}

var _ RealtimeClient = (*realtime.Client)(nil)

// Transcriber takes over the client's transcript and response-done
// callbacks for the duration of a transcription. Transcriptions on the same
// transcriber run one at a time.
type Transcriber struct {
	client  RealtimeClient
	options TranscriptionOptions

	mu sync.Mutex
}

func NewTranscriber(client RealtimeClient, opts ...TranscriptionOption) *Transcriber {
	t := &Transcriber{
		client: client,
		options: TranscriptionOptions{
			PartialTranscriptionCallback: func(string) {},
			Timeout:                      DefaultTimeout,
			ChunkSize:                    DefaultChunkSize,
		},
	}
	for _, opt := range opts {
		opt(&t.options)
	}
	return t
}

// Transcribe streams audio to the session, commits it and returns the
// transcript of the response. It fails with [realtime.ErrTimeout] if the
// server goes quiet for longer than the configured timeout.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	ctx, span := tracer.Start(ctx, "transcribe audio")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	transcript, err := t.transcribe(ctx, audio)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("transcript.length", len(transcript)))
	return transcript, nil
}

func (t *Transcriber) transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if !t.client.Connected() {
		if err := t.client.Connect(ctx); err != nil {
			return "", fmt.Errorf("failed to connect: %w", err)
		}
	}

	var (
		partsMu sync.Mutex
		parts   []string
	)
	activity := make(chan struct{}, 1)
	done := make(chan struct{}, 1)

	t.client.SetTranscriptCallback(func(text string) {
		partsMu.Lock()
		parts = append(parts, text)
		partsMu.Unlock()
		t.options.PartialTranscriptionCallback(text)
		utils.Signal(activity)
	})
	t.client.SetResponseDoneCallback(func() { utils.Signal(done) })
	defer t.client.SetTranscriptCallback(nil)
	defer t.client.SetResponseDoneCallback(nil)

	sent, err := t.stream(ctx, audio)
	if err != nil {
		return "", err
	}
	logger.Debug("audio streamed", "bytes", sent)

	if err := t.client.CommitAudio(ctx); err != nil {
		return "", fmt.Errorf("failed to commit audio: %w", err)
	}

	if err := utils.AwaitResponse(ctx, activity, done, t.options.Timeout); err != nil {
		return "", err
	}

	partsMu.Lock()
	defer partsMu.Unlock()
	return strings.Join(parts, ""), nil
}

func (t *Transcriber) stream(ctx context.Context, audio io.Reader) (int, error) {
	buffer := make([]byte, t.options.ChunkSize)
	sent := 0
	for {
		n, err := io.ReadFull(audio, buffer)
		if n > 0 {
			if sendErr := t.client.SendAudio(ctx, buffer[:n]); sendErr != nil {
				return sent, fmt.Errorf("failed to send audio: %w", sendErr)
			}
			sent += n
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return sent, nil
		default:
			return sent, fmt.Errorf("failed to read audio: %w", err)
		}

		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
	}
}
