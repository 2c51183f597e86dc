package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/koscakluka/ema-realtime/core/realtime"
)

// AwaitResponse waits until done is signalled and fails with
// [realtime.ErrTimeout] if nothing is signalled for timeout. Every activity
// signal restarts the timeout.
func AwaitResponse(ctx context.Context, activity, done <-chan struct{}, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-activity:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(timeout)
		case <-timer.C:
			return fmt.Errorf("%w after %s", realtime.ErrTimeout, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Signal does a non-blocking send on ch.
func Signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
