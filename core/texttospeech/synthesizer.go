// Package texttospeech turns a realtime session into a "text in, audio out"
// synthesizer producing WAV recordings.
package texttospeech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/koscakluka/ema-realtime/core/audio"
	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNoAudio is returned when a response completes without any audio.
var ErrNoAudio = errors.New("no audio received")

// SupportedVoices are the voices the session can speak with.
var SupportedVoices = realtime.SupportedVoices

// RealtimeClient is the part of [realtime.Client] the synthesizer uses.
type RealtimeClient interface {
	Connected() bool
	Connect(ctx context.Context) error
	SendText(ctx context.Context, text string) error
	SetAudioCallback(callback func(audio []byte))
	SetResponseDoneCallback(callback func())
	Config() realtime.Config
}

var _ RealtimeClient = (*realtime.Client)(nil)

// Synthesizer takes over the client's audio and response-done callbacks
// for the duration of a synthesis. Syntheses on the same synthesizer run one
// at a time.
type Synthesizer struct {
	client  RealtimeClient
	options TextToSpeechOptions

	mu sync.Mutex
}

func NewSynthesizer(client RealtimeClient, opts ...TextToSpeechOption) *Synthesizer {
	s := &Synthesizer{
		client: client,
		options: TextToSpeechOptions{
			SpeechAudioCallback: func([]byte) {},
			Timeout:             DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(&s.options)
	}
	return s
}

// Synthesize sends text as a user message and returns the spoken response
// as a WAV recording in the session's output encoding.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	wav, err := s.synthesize(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("audio.bytes", len(wav)))
	return wav, nil
}

func (s *Synthesizer) synthesize(ctx context.Context, text string) ([]byte, error) {
	if !s.client.Connected() {
		if err := s.client.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	var (
		audioMu sync.Mutex
		speech  bytes.Buffer
	)
	activity := make(chan struct{}, 1)
	done := make(chan struct{}, 1)

	s.client.SetAudioCallback(func(chunk []byte) {
		audioMu.Lock()
		speech.Write(chunk)
		audioMu.Unlock()
		s.options.SpeechAudioCallback(chunk)
		utils.Signal(activity)
	})
	s.client.SetResponseDoneCallback(func() { utils.Signal(done) })
	defer s.client.SetAudioCallback(nil)
	defer s.client.SetResponseDoneCallback(nil)

	if err := s.client.SendText(ctx, text); err != nil {
		return nil, fmt.Errorf("failed to send text: %w", err)
	}

	if err := utils.AwaitResponse(ctx, activity, done, s.options.Timeout); err != nil {
		return nil, err
	}

	audioMu.Lock()
	defer audioMu.Unlock()
	if speech.Len() == 0 {
		return nil, ErrNoAudio
	}
	logger.Debug("speech synthesized", "bytes", speech.Len())

	wav, err := audio.WAV(speech.Bytes(), s.client.Config().OutputEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	return wav, nil
}
