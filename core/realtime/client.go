// Package realtime is a client for the OpenAI Realtime protocol. It owns the
// connection lifecycle, configures the session, dispatches server events to
// single-slot callbacks and cancels in-flight responses when the user starts
// speaking.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/transport"
	"github.com/koscakluka/ema-realtime/core/transport/ws"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type Client struct {
	config Config
	dialer transport.Dialer

	callbacks callbacks
	tracker   responseTracker

	userSpeaking atomic.Bool

	// Lock order: lifecycleMu, sendMu, stateMu.
	lifecycleMu sync.Mutex
	sendMu      sync.Mutex
	stateMu     sync.RWMutex

	state     ConnectionState
	conn      transport.Conn
	cancel    context.CancelFunc
	done      chan struct{}
	sessionID string
}

// NewClient validates config, filling unset fields with defaults, and
// returns a disconnected client.
func NewClient(config Config, opts ...Option) (*Client, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := config.clone()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:    snapshot,
		dialer:    ws.NewDialer(),
		callbacks: newCallbacks(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect opens the transport and configures the session. It is a no-op if
// the client is already connected.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "connect realtime session")
	defer span.End()

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.State() == StateActive {
		return nil
	}

	if err := c.connect(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	logger.Info("connected to realtime session", "model", c.config.Model)
	return nil
}

func (c *Client) connect(ctx context.Context) error {
	session, err := c.config.sessionConfig()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectFailure, err)
	}
	endpoint, err := c.config.endpoint()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectFailure, err)
	}

	c.setState(StateConnecting)
	conn, err := c.dialer.Open(ctx, endpoint, c.config.header())
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("%w: %w", ErrConnectFailure, err)
	}

	c.setState(StateConfiguring)
	if err := c.write(ctx, conn, protocol.UpdateSession{Session: session}); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		c.setState(StateDisconnected)
		return fmt.Errorf("%w: failed to configure session: %w", ErrConnectFailure, err)
	}

	c.tracker.end()
	c.userSpeaking.Store(false)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	c.stateMu.Lock()
	c.state = StateActive
	c.conn = conn
	c.cancel = cancel
	c.done = done
	c.sessionID = ""
	c.stateMu.Unlock()

	go c.receiveLoop(loopCtx, conn, done)
	return nil
}

// Disconnect stops the receive loop, waits for it to finish and closes the
// transport. No callback fires after it returns. It is a no-op when not
// connected.
func (c *Client) Disconnect(ctx context.Context) error {
	_, span := tracer.Start(ctx, "disconnect realtime session")
	defer span.End()

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	// Connect holds lifecycleMu while configuring, so only an active
	// connection can be observed here.
	c.stateMu.Lock()
	if c.state != StateActive {
		c.stateMu.Unlock()
		return nil
	}
	c.state = StateClosing
	conn, cancel, done := c.conn, c.cancel, c.done
	c.stateMu.Unlock()

	cancel()
	<-done

	c.sendMu.Lock()
	err := conn.Close()
	c.stateMu.Lock()
	c.state = StateDisconnected
	c.conn, c.cancel, c.done = nil, nil, nil
	c.stateMu.Unlock()
	c.sendMu.Unlock()

	c.tracker.end()
	c.userSpeaking.Store(false)

	if err != nil {
		err = fmt.Errorf("failed to close transport: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	logger.Info("disconnected from realtime session")
	return nil
}

func (c *Client) receiveLoop(ctx context.Context, conn transport.Conn, done chan struct{}) {
	defer close(done)

	for {
		frame, err := conn.Receive(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			c.connectionLost(conn, err)
			return
		}

		event, err := protocol.Decode(frame)
		if err != nil {
			messagesDropped.Add(ctx, 1)
			logger.Warn("dropping malformed message", "error", err)
			continue
		}

		eventsReceived.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(event.Kind()))))
		c.dispatch(ctx, event)
	}
}

// connectionLost tears down a connection whose transport ended without
// Disconnect being called. There is no automatic reconnect.
func (c *Client) connectionLost(conn transport.Conn, cause error) {
	c.sendMu.Lock()
	c.stateMu.Lock()
	if c.state != StateActive || c.conn != conn {
		c.stateMu.Unlock()
		c.sendMu.Unlock()
		return
	}
	cancel := c.cancel
	c.state = StateDisconnected
	c.conn, c.cancel, c.done = nil, nil, nil
	c.stateMu.Unlock()

	closeErr := conn.Close()
	c.sendMu.Unlock()
	cancel()

	c.tracker.end()
	c.userSpeaking.Store(false)

	err := fmt.Errorf("realtime connection lost: %w", cause)
	if closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	logger.Error("realtime connection lost", "error", err)
	c.callbacks.failure()(err)
}

func (c *Client) setState(state ConnectionState) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state = state
}

func (c *Client) State() ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Client) Connected() bool {
	return c.State() == StateActive
}

// HasActiveResponse reports whether a response is in flight.
func (c *Client) HasActiveResponse() bool {
	return c.tracker.isActive()
}

// UserSpeaking reports whether the server last detected the user speaking.
// It is advisory only.
func (c *Client) UserSpeaking() bool {
	return c.userSpeaking.Load()
}

// SessionID returns the id of the current session once the server has
// announced it.
func (c *Client) SessionID() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.sessionID
}

// Config returns a copy of the configuration the client connects with.
func (c *Client) Config() Config {
	snapshot, err := c.config.clone()
	if err != nil {
		return c.config
	}
	return snapshot
}
