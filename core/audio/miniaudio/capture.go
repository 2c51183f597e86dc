package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-realtime/core/audio"
)

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	mu sync.Mutex

	// callbackMu guards onAudio separately from mu so a device stop can wait
	// for an in-flight data callback.
	callbackMu sync.Mutex
	onAudio    func(audio []byte)
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext, encodingInfo audio.EncodingInfo, format malgo.FormatType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(encodingInfo.SampleRate)
	bytesPerFrame := malgo.SampleSizeInBytes(format) * audio.DefaultChannels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = sampleRate
	c.config.Capture.Format = format
	c.config.Capture.Channels = audio.DefaultChannels
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = sampleRate / 50 // 20ms
	c.config.Periods = 3

	c.audioContext = audioContext

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}

			c.callbackMu.Lock()
			onAudio := c.onAudio
			c.callbackMu.Unlock()
			if onAudio != nil {
				// malgo reuses the input buffer between callbacks
				onAudio(append([]byte(nil), pInput[:n]...))
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.setOnAudio(onAudio)
	if c.device.IsStarted() {
		return nil
	}
	if err := c.device.Start(); err != nil {
		c.setOnAudio(nil)
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return nil
	}

	c.setOnAudio(nil)
	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.setOnAudio(nil)
	return nil
}

func (c *captureClient) setOnAudio(onAudio func(audio []byte)) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.onAudio = onAudio
}
