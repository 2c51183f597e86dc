package texttospeech

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/ema-realtime/core/audio"
	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/internal/realtimetest"
)

func respondWithAudio(deltas ...string) func(conn *realtimetest.Conn, frame []byte) {
	return func(conn *realtimetest.Conn, frame []byte) {
		if realtimetest.Type(frame) != protocol.TypeResponseCreate {
			return
		}
		conn.Push(`{"type":"response.created","response":{"id":"resp_1"}}`)
		for _, delta := range deltas {
			conn.PushJSON(map[string]string{"type": protocol.TypeResponseOutputAudioDelta, "delta": delta})
		}
		conn.Push(`{"type":"response.done","response":{"id":"resp_1","status":"completed"}}`)
	}
}

func newTestClient(t *testing.T, dialer *realtimetest.Dialer) *realtime.Client {
	t.Helper()

	client, err := realtime.NewClient(realtime.Config{APIKey: "sk-test"}, realtime.WithDialer(dialer))
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client
}

func TestSynthesizeReturnsWAV(t *testing.T) {
	// "AAEC" and "AwQ=" decode to 00 01 02 and 03 04.
	dialer := &realtimetest.Dialer{OnSend: respondWithAudio("AAEC", "AwQ=")}
	client := newTestClient(t, dialer)

	var chunks atomic.Int32
	synthesizer := NewSynthesizer(client, WithSpeechAudioCallback(func([]byte) { chunks.Add(1) }))

	wav, err := synthesizer.Synthesize(context.Background(), "Say hi")
	if err != nil {
		t.Fatalf("expected synthesis to succeed, got %v", err)
	}

	samples, encodingInfo, err := audio.DecodeWAV(wav)
	if err != nil {
		t.Fatalf("expected valid wav, got %v", err)
	}
	if !bytes.Equal(samples, []byte{0, 1, 2, 3, 4}) {
		t.Fatalf("expected concatenated audio, got %v", samples)
	}
	if encodingInfo.SampleRate != audio.DefaultSampleRate || encodingInfo.Format != audio.EncodingLinear16 {
		t.Fatalf("expected 24 kHz linear16, got %+v", encodingInfo)
	}
	if chunks.Load() != 2 {
		t.Fatalf("expected 2 streamed chunks, got %d", chunks.Load())
	}

	expected := []string{protocol.TypeSessionUpdate, protocol.TypeConversationItemCreate, protocol.TypeResponseCreate}
	if types := dialer.Last().SentTypes(); len(types) != 3 || types[1] != expected[1] || types[2] != expected[2] {
		t.Fatalf("expected %v, got %v", expected, types)
	}
}

func TestSynthesizeWithoutAudioFails(t *testing.T) {
	dialer := &realtimetest.Dialer{OnSend: respondWithAudio()}
	client := newTestClient(t, dialer)

	if _, err := NewSynthesizer(client).Synthesize(context.Background(), "..."); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestSynthesizeTimesOut(t *testing.T) {
	dialer := &realtimetest.Dialer{}
	client := newTestClient(t, dialer)

	_, err := NewSynthesizer(client, WithTimeout(50*time.Millisecond)).Synthesize(context.Background(), "hello")
	if !errors.Is(err, realtime.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestSynthesizeFailsWhenConnectFails(t *testing.T) {
	dialer := &realtimetest.Dialer{OpenErr: errors.New("refused")}
	client := newTestClient(t, dialer)

	if _, err := NewSynthesizer(client).Synthesize(context.Background(), "hello"); !errors.Is(err, realtime.ErrConnectFailure) {
		t.Fatalf("expected ErrConnectFailure, got %v", err)
	}
}

func TestSupportedVoicesIncludeDefault(t *testing.T) {
	for _, voice := range SupportedVoices {
		if voice == realtime.DefaultVoice {
			return
		}
	}
	t.Fatalf("expected %q in supported voices", realtime.DefaultVoice)
}
