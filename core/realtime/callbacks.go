package realtime

import "sync"

// callbacks holds one observer per kind. Setting a callback replaces the
// previous one.
type callbacks struct {
	mu sync.RWMutex

	onAudio         func([]byte)
	onTranscript    func(string)
	onResponseDone  func()
	onSpeechStarted func()
	onSpeechStopped func()
	onError         func(error)
}

func newCallbacks() callbacks {
	return callbacks{
		onAudio:         func([]byte) {},
		onTranscript:    func(string) {},
		onResponseDone:  func() {},
		onSpeechStarted: func() {},
		onSpeechStopped: func() {},
		onError:         func(error) {},
	}
}

func (c *callbacks) audio() func([]byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onAudio
}

func (c *callbacks) transcript() func(string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onTranscript
}

func (c *callbacks) responseDone() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onResponseDone
}

func (c *callbacks) speechStarted() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onSpeechStarted
}

func (c *callbacks) speechStopped() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onSpeechStopped
}

func (c *callbacks) failure() func(error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onError
}

// SetAudioCallback sets the observer for response audio chunks. A nil
// callback clears it.
//
// All callbacks run on the receive goroutine and must return before the
// next event is processed. Calling Disconnect from inside one deadlocks.
func (c *Client) SetAudioCallback(callback func(audio []byte)) {
	if callback == nil {
		callback = func([]byte) {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onAudio = callback
}

// SetTranscriptCallback sets the observer for response transcript chunks.
// Empty chunks are never delivered.
func (c *Client) SetTranscriptCallback(callback func(text string)) {
	if callback == nil {
		callback = func(string) {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onTranscript = callback
}

func (c *Client) SetResponseDoneCallback(callback func()) {
	if callback == nil {
		callback = func() {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onResponseDone = callback
}

// SetSpeechStartedCallback sets the observer for the server detecting the
// user starting to speak. It runs before any in-flight response is
// cancelled.
func (c *Client) SetSpeechStartedCallback(callback func()) {
	if callback == nil {
		callback = func() {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onSpeechStarted = callback
}

func (c *Client) SetSpeechStoppedCallback(callback func()) {
	if callback == nil {
		callback = func() {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onSpeechStopped = callback
}

// SetErrorCallback sets the observer for server errors that need attention
// and for the connection being lost. Benign server errors are not reported.
func (c *Client) SetErrorCallback(callback func(error)) {
	if callback == nil {
		callback = func(error) {}
	}
	c.callbacks.mu.Lock()
	defer c.callbacks.mu.Unlock()
	c.callbacks.onError = callback
}
