package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-realtime/core/transport"
)

const closeGracePeriod = 2 * time.Second

type conn struct {
	ws        *websocket.Conn
	writeWait time.Duration

	writeMu sync.Mutex

	frames chan []byte
	// done closes when the read pump exits; closed closes on Close.
	done      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, writeWait time.Duration) *conn {
	c := &conn{
		ws:        ws,
		writeWait: writeWait,
		frames:    make(chan []byte),
		done:      make(chan struct{}),
		closed:    make(chan struct{}),
	}
	go c.readPump()
	return c
}

func (c *conn) readPump() {
	defer close(c.done)

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("websocket closed unexpectedly", "error", err)
				} else {
					logger.Debug("websocket read ended", "error", err)
				}
			}
			return
		}

		// The protocol only uses text frames.
		if messageType != websocket.TextMessage {
			logger.Debug("ignoring non-text websocket frame", "type", messageType)
			continue
		}

		select {
		case c.frames <- data:
		case <-c.closed:
			return
		}
	}
}

func (c *conn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	case <-c.done:
		return nil, transport.ErrTransportClosed
	case <-c.closed:
		return nil, transport.ErrTransportClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *conn) Send(ctx context.Context, frame []byte) error {
	select {
	case <-c.closed:
		return transport.ErrTransportClosed
	case <-c.done:
		return transport.ErrTransportClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeWait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}

func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		closeMsgErr := c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod))
		c.writeMu.Unlock()

		if closeErr := c.ws.Close(); closeErr != nil {
			if errors.Is(closeMsgErr, websocket.ErrCloseSent) {
				closeMsgErr = nil
			}
			err = fmt.Errorf("failed to close websocket: %w", errors.Join(closeMsgErr, closeErr))
		}
	})
	<-c.done
	return err
}
