package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/koscakluka/ema-realtime/internal/realtimetest"
)

func newTestClient(t *testing.T, dialer *realtimetest.Dialer, opts ...Option) *Client {
	t.Helper()

	client, err := NewClient(Config{APIKey: "sk-test"}, append([]Option{WithDialer(dialer)}, opts...)...)
	if err != nil {
		t.Fatalf("expected client to be created, got %v", err)
	}
	return client
}

func connectTestClient(t *testing.T, client *Client, dialer *realtimetest.Dialer) *realtimetest.Conn {
	t.Helper()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return dialer.Last()
}

func waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receiveWithin[T any](t *testing.T, ch <-chan T, description string) T {
	t.Helper()

	select {
	case value := <-ch:
		return value
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", description)
	}
	var zero T
	return zero
}
