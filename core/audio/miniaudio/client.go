// Package miniaudio captures microphone audio and plays back response audio
// through the system's default devices.
package miniaudio

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-realtime/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	encodingInfo audio.EncodingInfo
	playbackClient
	captureClient
}

// NewClient opens the default capture and playback devices for audio in
// the given encoding. Playback starts right away, capture on StartCapture.
func NewClient(encodingInfo audio.EncodingInfo) (*Client, error) {
	if encodingInfo.IsZero() {
		encodingInfo = audio.GetDefaultEncodingInfo()
	}
	format, err := deviceFormat(encodingInfo)
	if err != nil {
		return nil, err
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := &Client{
		audioContext: audioCtx,
		encodingInfo: encodingInfo,
	}

	if err := client.playbackClient.Init(audioCtx, encodingInfo, format); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}
	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx, encodingInfo, format); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) Close() {
	if err := c.captureClient.Uninit(); err != nil {
		logger.Debug("failed to uninitialize capture device", "error", err)
	}
	if err := c.playbackClient.Uninit(); err != nil {
		logger.Debug("failed to uninitialize playback device", "error", err)
	}
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

// SendAudio queues audio for playback.
func (c *Client) SendAudio(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

// ClearBuffer drops all audio queued for playback.
func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

// AwaitDrain blocks until everything queued so far has been played or
// dropped.
func (c *Client) AwaitDrain(ctx context.Context) error {
	return c.playbackClient.AwaitDrain(ctx)
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}

var errUnsupportedFormat = errors.New("unsupported device format")

// deviceFormat maps an encoding onto a sample format the devices can use.
// Only PCM is supported, G.711 would need transcoding.
func deviceFormat(encodingInfo audio.EncodingInfo) (malgo.FormatType, error) {
	if encodingInfo.Format != audio.EncodingLinear16 {
		return malgo.FormatUnknown, fmt.Errorf("%w: %s", errUnsupportedFormat, encodingInfo.Format.Name())
	}
	return malgo.FormatS16, nil
}
