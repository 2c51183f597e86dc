package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/koscakluka/ema-realtime/core/protocol"
	"github.com/koscakluka/ema-realtime/core/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// SendAudio appends a chunk of input audio to the server's buffer. Audio
// must already be in the configured input encoding. Empty chunks are
// ignored.
func (c *Client) SendAudio(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return nil
	}
	return dropIfNotConnected(c.send(ctx, protocol.AppendAudio{Audio: audio}))
}

// CommitAudio commits the input buffer as a user turn and requests a
// response unless one is already in flight.
func (c *Client) CommitAudio(ctx context.Context) error {
	if err := c.send(ctx, protocol.CommitAudio{}); err != nil {
		return dropIfNotConnected(err)
	}
	return c.requestResponse(ctx)
}

// SendText adds a user text message to the conversation and requests a
// response unless one is already in flight.
func (c *Client) SendText(ctx context.Context, text string) error {
	if err := c.send(ctx, protocol.CreateConversationItem{Text: text}); err != nil {
		return dropIfNotConnected(err)
	}
	return c.requestResponse(ctx)
}

// CancelResponse cancels the in-flight response, if any, and clears the
// input audio buffer.
func (c *Client) CancelResponse(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "cancel response")
	defer span.End()

	var errs []error
	if c.tracker.takeActive() {
		span.AddEvent("cancelling active response")
		if err := dropIfNotConnected(c.send(ctx, protocol.CancelResponse{})); err != nil {
			errs = append(errs, err)
		}
	}
	if err := dropIfNotConnected(c.send(ctx, protocol.ClearAudioBuffer{})); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) requestResponse(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "request response")
	defer span.End()

	if !c.tracker.tryBegin() {
		span.AddEvent("response already active")
		return nil
	}

	if err := c.send(ctx, protocol.CreateResponse{}); err != nil {
		c.tracker.end()
		if err = dropIfNotConnected(err); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
	return nil
}

// send writes cmd on the active connection, returning ErrNotConnected if
// there is none.
func (c *Client) send(ctx context.Context, cmd protocol.Command) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.stateMu.RLock()
	conn, state := c.conn, c.state
	c.stateMu.RUnlock()
	if state != StateActive || conn == nil {
		return fmt.Errorf("%w: cannot send %s", ErrNotConnected, cmd.Type())
	}

	return c.write(ctx, conn, cmd)
}

func (c *Client) write(ctx context.Context, conn transport.Conn, cmd protocol.Command) error {
	frame, err := protocol.Encode(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", cmd.Type(), err)
	}
	if err := conn.Send(ctx, frame); err != nil {
		return fmt.Errorf("failed to send %s: %w", cmd.Type(), err)
	}

	commandsSent.Add(ctx, 1, metric.WithAttributes(attribute.String("type", cmd.Type())))
	return nil
}

func dropIfNotConnected(err error) error {
	if errors.Is(err, ErrNotConnected) {
		logger.Warn("dropping command", "error", err)
		return nil
	}
	return err
}
