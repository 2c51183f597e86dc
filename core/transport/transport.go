// Package transport defines the duplex message channel the realtime client
// talks through. Implementations carry opaque text frames and know nothing
// about the protocol on top.
package transport

import (
	"context"
	"errors"
	"net/http"
)

// ErrTransportClosed is returned by [Conn.Receive] and [Conn.Send] once the
// connection has ended, whether closed locally or by the remote side.
var ErrTransportClosed = errors.New("transport closed")

type Dialer interface {
	// Open establishes a connection to url, sending header with the
	// handshake.
	Open(ctx context.Context, url string, header http.Header) (Conn, error)
}

// Conn is an open duplex channel of text frames.
//
// Send may be called concurrently with Receive. Close unblocks any pending
// Receive and is safe to call more than once.
type Conn interface {
	Send(ctx context.Context, frame []byte) error
	// Receive blocks until the next frame arrives, the connection ends
	// ([ErrTransportClosed]) or ctx is done (ctx.Err()).
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}
