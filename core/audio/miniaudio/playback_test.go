package miniaudio

import (
	"bytes"
	"testing"
	"time"
)

func TestPlaybackBufferPadsWithSilence(t *testing.T) {
	buffer := newPlaybackBuffer(0x7f)
	buffer.write([]byte{1, 2, 3})

	out := make([]byte, 5)
	if n := buffer.read(out); n != 3 {
		t.Fatalf("expected 3 bytes of audio, got %d", n)
	}
	if !bytes.Equal(out, []byte{1, 2, 3, 0x7f, 0x7f}) {
		t.Fatalf("expected audio padded with silence, got %v", out)
	}
	if buffer.buffered() != 0 {
		t.Fatalf("expected buffer to be empty, got %d", buffer.buffered())
	}
}

func TestPlaybackBufferKeepsRemainder(t *testing.T) {
	buffer := newPlaybackBuffer(0)
	buffer.write([]byte{1, 2, 3, 4})

	out := make([]byte, 2)
	buffer.read(out)
	buffer.read(out)

	if !bytes.Equal(out, []byte{3, 4}) {
		t.Fatalf("expected the second read to continue where the first stopped, got %v", out)
	}
}

func TestPlaybackBufferMarkFiresAfterQueuedAudioPlays(t *testing.T) {
	buffer := newPlaybackBuffer(0)
	buffer.write(make([]byte, 4))

	fired := make(chan struct{}, 1)
	buffer.mark(func() { fired <- struct{}{} })
	buffer.write(make([]byte, 4))

	buffer.read(make([]byte, 2))
	select {
	case <-fired:
		t.Fatalf("expected mark not to fire before its audio played")
	case <-time.After(20 * time.Millisecond):
	}

	buffer.read(make([]byte, 2))
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("expected mark to fire once its audio played")
	}
	if buffer.buffered() != 4 {
		t.Fatalf("expected audio after the mark to stay queued, got %d", buffer.buffered())
	}
}

func TestPlaybackBufferClearDropsAudioAndFiresMarks(t *testing.T) {
	buffer := newPlaybackBuffer(0)
	buffer.write(make([]byte, 10))

	fired := false
	buffer.mark(func() { fired = true })
	buffer.clear()

	if !fired {
		t.Fatalf("expected clear to release pending marks")
	}
	if buffer.buffered() != 0 {
		t.Fatalf("expected clear to drop queued audio, got %d", buffer.buffered())
	}
}

func TestPlaybackBufferMarkOnEmptyBufferFiresImmediately(t *testing.T) {
	buffer := newPlaybackBuffer(0)

	fired := false
	buffer.mark(func() { fired = true })

	if !fired {
		t.Fatalf("expected mark on an empty buffer to fire immediately")
	}
}
