package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "session created", event: NewSessionCreated("sess_1", "gpt-realtime"), expected: KindSessionCreated},
		{name: "session updated", event: NewSessionUpdated("sess_1"), expected: KindSessionUpdated},
		{name: "response created", event: NewResponseCreated("resp_1"), expected: KindResponseCreated},
		{name: "response done", event: NewResponseDone("resp_1", "completed"), expected: KindResponseDone},
		{name: "audio delta", event: NewAudioDelta("resp_1", []byte{1}), expected: KindAudioDelta},
		{name: "transcript delta", event: NewTranscriptDelta("resp_1", "hi"), expected: KindTranscriptDelta},
		{name: "speech started", event: NewSpeechStarted("item_1", 120), expected: KindSpeechStarted},
		{name: "speech stopped", event: NewSpeechStopped("item_1", 940), expected: KindSpeechStopped},
		{name: "error", event: NewError("invalid_request_error", "bad", "oops", ""), expected: KindError},
		{name: "unrecognized", event: NewUnrecognized("rate_limits.updated"), expected: KindUnrecognized},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestSpeechStartedAndStoppedKindsAreDistinct(t *testing.T) {
	started := NewSpeechStarted("", 0)
	stopped := NewSpeechStopped("", 0)

	if started.Kind() == stopped.Kind() {
		t.Fatalf("expected speech started and speech stopped kinds to differ, both were %q", started.Kind())
	}
}
