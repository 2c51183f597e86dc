// Package ws implements [transport.Dialer] over gorilla websockets.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-realtime/core/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteWait        = 10 * time.Second
	// DefaultReadLimit bounds a single inbound frame. Audio deltas are the
	// largest messages and stay well below it.
	DefaultReadLimit = 16 << 20
)

type Dialer struct {
	options DialerOptions
}

type DialerOptions struct {
	HandshakeTimeout time.Duration
	WriteWait        time.Duration
	ReadLimit        int64
}

type DialerOption func(*DialerOptions)

func WithHandshakeTimeout(timeout time.Duration) DialerOption {
	return func(o *DialerOptions) {
		if timeout > 0 {
			o.HandshakeTimeout = timeout
		}
	}
}

func WithWriteWait(wait time.Duration) DialerOption {
	return func(o *DialerOptions) {
		if wait > 0 {
			o.WriteWait = wait
		}
	}
}

func WithReadLimit(limit int64) DialerOption {
	return func(o *DialerOptions) {
		if limit > 0 {
			o.ReadLimit = limit
		}
	}
}

func NewDialer(opts ...DialerOption) *Dialer {
	d := &Dialer{
		options: DialerOptions{
			HandshakeTimeout: DefaultHandshakeTimeout,
			WriteWait:        DefaultWriteWait,
			ReadLimit:        DefaultReadLimit,
		},
	}
	for _, opt := range opts {
		opt(&d.options)
	}
	return d
}

func (d *Dialer) Open(ctx context.Context, url string, header http.Header) (transport.Conn, error) {
	ctx, span := tracer.Start(ctx, "open websocket")
	defer span.End()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.options.HandshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		} else {
			err = fmt.Errorf("websocket dial failed: %w", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ws.SetReadLimit(d.options.ReadLimit)

	return newConn(ws, d.options.WriteWait), nil
}
