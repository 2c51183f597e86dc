package realtime

import "testing"

func TestResponseTracker(t *testing.T) {
	var tracker responseTracker

	if !tracker.tryBegin() {
		t.Fatalf("expected first tryBegin to succeed")
	}
	if tracker.tryBegin() {
		t.Fatalf("expected tryBegin to fail while active")
	}
	if !tracker.takeActive() {
		t.Fatalf("expected takeActive to report the active response")
	}
	if tracker.takeActive() {
		t.Fatalf("expected takeActive to report nothing after clearing")
	}

	tracker.begin()
	if !tracker.isActive() {
		t.Fatalf("expected begin to mark a response active")
	}
	tracker.end()
	if tracker.isActive() {
		t.Fatalf("expected end to clear the active response")
	}
}
