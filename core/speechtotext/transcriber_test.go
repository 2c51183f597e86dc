package speechtotext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/realtime"
	"github.com/koscakluka/ema-realtime/internal/realtimetest"
)

func respondWithTranscript(parts ...string) func(conn *realtimetest.Conn, frame []byte) {
	return func(conn *realtimetest.Conn, frame []byte) {
		if realtimetest.Type(frame) != protocol.TypeResponseCreate {
			return
		}
		conn.Push(`{"type":"response.created","response":{"id":"resp_1"}}`)
		for _, part := range parts {
			conn.PushJSON(map[string]string{"type": protocol.TypeResponseOutputAudioTranscriptDelta, "delta": part})
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

func TestTranscribeStreamsCommitsAndJoinsTranscript(t *testing.T) {
	dialer := &realtimetest.Dialer{OnSend: respondWithTranscript("Hello", " ", "world")}
	client := newTestClient(t, dialer)

	var mu sync.Mutex
	var partials []string
	transcriber := NewTranscriber(client, WithPartialTranscriptionCallback(func(text string) {
		mu.Lock()
		defer mu.Unlock()
		partials = append(partials, text)
	}))

	transcript, err := transcriber.Transcribe(context.Background(), bytes.NewReader(make([]byte, 10000)))
	if err != nil {
		t.Fatalf("expected transcription to succeed, got %v", err)
	}
	if transcript != "Hello world" {
		t.Fatalf("expected %q, got %q", "Hello world", transcript)
	}

	conn := dialer.Last()
	if count := conn.CountSent(protocol.TypeInputAudioBufferAppend); count != 3 {
		t.Fatalf("expected audio in 3 chunks, got %d", count)
	}
	if count := conn.CountSent(protocol.TypeInputAudioBufferCommit); count != 1 {
		t.Fatalf("expected one commit, got %d", count)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(partials) != 3 {
		t.Fatalf("expected 3 partial transcripts, got %v", partials)
	}
}

func TestTranscribeReusesExistingConnection(t *testing.T) {
	dialer := &realtimetest.Dialer{OnSend: respondWithTranscript("ok")}
	client := newTestClient(t, dialer)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}

	transcriber := NewTranscriber(client)
	for range 2 {
		if _, err := transcriber.Transcribe(context.Background(), bytes.NewReader([]byte{1, 2})); err != nil {
			t.Fatalf("expected transcription to succeed, got %v", err)
		}
	}

	if dialer.Opened() != 1 {
		t.Fatalf("expected a single connection, got %d", dialer.Opened())
	}
}

func TestTranscribeTimesOut(t *testing.T) {
	dialer := &realtimetest.Dialer{}
	client := newTestClient(t, dialer)

	transcriber := NewTranscriber(client, WithTimeout(50*time.Millisecond))

	_, err := transcriber.Transcribe(context.Background(), bytes.NewReader([]byte{1, 2, 3}))
	if !errors.Is(err, realtime.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestTranscribeFailsWhenConnectFails(t *testing.T) {
	dialer := &realtimetest.Dialer{OpenErr: errors.New("refused")}
	client := newTestClient(t, dialer)

	_, err := NewTranscriber(client).Transcribe(context.Background(), bytes.NewReader([]byte{1}))
	if !errors.Is(err, realtime.ErrConnectFailure) {
		t.Fatalf("expected ErrConnectFailure, got %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestTranscribeReturnsReadErrors(t *testing.T) {
	dialer := &realtimetest.Dialer{}
	client := newTestClient(t, dialer)
	readErr := errors.New("disk on fire")

	_, err := NewTranscriber(client).Transcribe(context.Background(), failingReader{err: readErr})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if count := dialer.Last().CountSent(protocol.TypeInputAudioBufferCommit); count != 0 {
		t.Fatalf("expected no commit after a read error, got %d", count)
	}
}

func TestTranscribeReleasesCallbacks(t *testing.T) {
	dialer := &realtimetest.Dialer{OnSend: respondWithTranscript("first")}
	client := newTestClient(t, dialer)

	var mu sync.Mutex
	calls := 0
	transcriber := NewTranscriber(client, WithPartialTranscriptionCallback(func(string) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	}))
	if _, err := transcriber.Transcribe(context.Background(), io.LimitReader(bytes.NewReader(make([]byte, 10)), 10)); err != nil {
		t.Fatalf("expected transcription to succeed, got %v", err)
	}

	observed := make(chan struct{}, 1)
	client.SetResponseDoneCallback(func() { observed <- struct{}{} })
	dialer.Last().Push(`{"type":"response.output_audio_transcript.delta","delta":"stray"}`)
	dialer.Last().Push(`{"type":"response.done","response":{"id":"resp_2"}}`)

	select {
	case <-observed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for stray response")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected transcriber callbacks to be released, got %d partial calls", calls)
	}
}
