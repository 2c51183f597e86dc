package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-realtime/core/audio"
)

type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	buffer *playbackBuffer

	mu sync.Mutex
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, encodingInfo audio.EncodingInfo, format malgo.FormatType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(encodingInfo.SampleRate)

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = sampleRate
	c.config.Playback.Format = format
	c.config.Playback.Channels = audio.DefaultChannels
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext
	c.buffer = newPlaybackBuffer(encodingInfo.SilenceValue())

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: func(pOutput, _ []byte, _ uint32) { c.buffer.read(pOutput) }},
	); err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.mu.Lock()
	device := c.device
	c.mu.Unlock()
	if device == nil {
		return fmt.Errorf("device not initialized")
	} else if !device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.buffer.write(audio)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	if c.buffer != nil {
		c.buffer.clear()
	}
}

func (c *playbackClient) AwaitDrain(ctx context.Context) error {
	if c.buffer == nil {
		return nil
	}

	drained := make(chan struct{})
	c.buffer.mark(func() { close(drained) })

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil
	c.ClearBuffer()
	return nil
}

// playbackBuffer queues audio between the network and the device callback.
// Marks fire once the audio queued before them has been played, or dropped
// by clear.
type playbackBuffer struct {
	mu      sync.Mutex
	pending []byte
	marks   []playbackMark
	silence byte
}

type playbackMark struct {
	position int
	callback func()
}

func newPlaybackBuffer(silence byte) *playbackBuffer {
	return &playbackBuffer{silence: silence}
}

func (b *playbackBuffer) write(audio []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, audio...)
}

// read fills out with queued audio, padding with silence.
func (b *playbackBuffer) read(out []byte) int {
	b.mu.Lock()
	n := copy(out, b.pending)
	b.pending = b.pending[n:]
	if len(b.pending) == 0 {
		b.pending = nil
	}
	passed := b.advanceMarks(n)
	b.mu.Unlock()

	for i := n; i < len(out); i++ {
		out[i] = b.silence
	}

	if len(passed) > 0 {
		go fireMarks(passed)
	}
	return n
}

func (b *playbackBuffer) clear() {
	b.mu.Lock()
	b.pending = nil
	passed := b.marks
	b.marks = nil
	b.mu.Unlock()

	fireMarks(passed)
}

func (b *playbackBuffer) mark(callback func()) {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		callback()
		return
	}
	b.marks = append(b.marks, playbackMark{position: len(b.pending), callback: callback})
	b.mu.Unlock()
}

func (b *playbackBuffer) buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// advanceMarks must be called with mu held.
func (b *playbackBuffer) advanceMarks(played int) []playbackMark {
	passed := 0
	for i := range b.marks {
		b.marks[i].position -= played
		if b.marks[i].position <= 0 {
			passed++
		}
	}
	if passed == 0 {
		return nil
	}

	fired := b.marks[:passed:passed]
	b.marks = b.marks[passed:]
	return fired
}

func fireMarks(marks []playbackMark) {
	for _, mark := range marks {
		mark.callback()
	}
}
