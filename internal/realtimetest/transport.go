// Package realtimetest provides an in-memory transport that plays the
// server side of a realtime connection in tests.
package realtimetest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-realtime/core/transport"
)

const inboundCapacity = 1024

// Dialer hands out [Conn]s and remembers every one it opened.
type Dialer struct {
	// OpenErr, when set, fails every Open.
	OpenErr error
	// SendErr is copied into every new connection.
	SendErr error
	// OnSend is copied into every new connection.
	OnSend func(conn *Conn, frame []byte)

	mu    sync.Mutex
	conns []*Conn
}

func (d *Dialer) Open(ctx context.Context, url string, header http.Header) (transport.Conn, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	conn := NewConn()
	conn.URL = url
	conn.Header = header.Clone()
	conn.sendErr = d.SendErr
	conn.onSend = d.OnSend

	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	return conn, nil
}

// Opened returns the number of connections opened so far.
func (d *Dialer) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// Last returns the most recently opened connection, or nil.
func (d *Dialer) Last() *Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

type Conn struct {
	URL    string
	Header http.Header

	mu      sync.Mutex
	sent    [][]byte
	sendErr error
	onSend  func(conn *Conn, frame []byte)

	inbound      chan []byte
	closed       chan struct{}
	closeOnce    sync.Once
	remoteClosed chan struct{}
	remoteOnce   sync.Once

	closeCalls       atomic.Int32
	receiving        atomic.Int32
	receivingAtClose atomic.Int32
}

func NewConn() *Conn {
	return &Conn{
		inbound:      make(chan []byte, inboundCapacity),
		closed:       make(chan struct{}),
		remoteClosed: make(chan struct{}),
	}
}

func (c *Conn) Send(ctx context.Context, frame []byte) error {
	select {
	case <-c.closed:
		return transport.ErrTransportClosed
	default:
	}

	c.mu.Lock()
	if c.sendErr != nil {
		err := c.sendErr
		c.mu.Unlock()
		return err
	}
	c.sent = append(c.sent, append([]byte(nil), frame...))
	onSend := c.onSend
	c.mu.Unlock()

	if onSend != nil {
		onSend(c, frame)
	}
	return nil
}

func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	c.receiving.Add(1)
	defer c.receiving.Add(-1)

	// Queued frames are delivered before a remote close.
	select {
	case frame := <-c.inbound:
		return frame, nil
	default:
	}

	select {
	case frame := <-c.inbound:
		return frame, nil
	case <-c.closed:
		return nil, transport.ErrTransportClosed
	case <-c.remoteClosed:
		return nil, transport.ErrTransportClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Conn) Close() error {
	c.closeCalls.Add(1)
	c.closeOnce.Do(func() {
		c.receivingAtClose.Store(c.receiving.Load())
		close(c.closed)
	})
	return nil
}

// Push queues a raw inbound frame.
func (c *Conn) Push(frame string) {
	c.inbound <- []byte(frame)
}

// PushJSON queues v marshalled as an inbound frame.
func (c *Conn) PushJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	c.inbound <- data
}

// EndRemote simulates the server closing the connection.
func (c *Conn) EndRemote() {
	c.remoteOnce.Do(func() { close(c.remoteClosed) })
}

func (c *Conn) SetSendErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

func (c *Conn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.sent...)
}

// SentTypes returns the type of every frame sent so far, in order.
func (c *Conn) SentTypes() []string {
	sent := c.Sent()
	types := make([]string, 0, len(sent))
	for _, frame := range sent {
		types = append(types, Type(frame))
	}
	return types
}

// CountSent returns how many frames of the given type were sent.
func (c *Conn) CountSent(messageType string) int {
	count := 0
	for _, sentType := range c.SentTypes() {
		if sentType == messageType {
			count++
		}
	}
	return count
}

func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Conn) CloseCalls() int {
	return int(c.closeCalls.Load())
}

// ReceivingAtClose reports how many Receive calls were in progress when
// Close was first called.
func (c *Conn) ReceivingAtClose() int {
	return int(c.receivingAtClose.Load())
}

// Type returns the "type" field of a JSON frame, or "" if there is none.
func Type(frame []byte) string {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return ""
	}
	return envelope.Type
}
