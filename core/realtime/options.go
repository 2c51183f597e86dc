package realtime

import "github.com/koscakluka/ema-realtime/core/transport"

type Option func(*Client)

// WithDialer replaces the websocket dialer used to open connections.
func WithDialer(dialer transport.Dialer) Option {
	return func(c *Client) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

func WithAudioCallback(callback func(audio []byte)) Option {
	return func(c *Client) { c.SetAudioCallback(callback) }
}

func WithTranscriptCallback(callback func(text string)) Option {
	return func(c *Client) { c.SetTranscriptCallback(callback) }
}

func WithResponseDoneCallback(callback func()) Option {
	return func(c *Client) { c.SetResponseDoneCallback(callback) }
}

func WithSpeechStartedCallback(callback func()) Option {
	return func(c *Client) { c.SetSpeechStartedCallback(callback) }
}

func WithSpeechStoppedCallback(callback func()) Option {
	return func(c *Client) { c.SetSpeechStoppedCallback(callback) }
}

func WithErrorCallback(callback func(error)) Option {
	return func(c *Client) { c.SetErrorCallback(callback) }
}
