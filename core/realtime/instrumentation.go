package realtime

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/ema-realtime/core/realtime"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	commandsSent    = newCounter("realtime.commands.sent", "Commands written to the transport")
	eventsReceived  = newCounter("realtime.events.received", "Server events decoded and dispatched")
	messagesDropped = newCounter("realtime.messages.dropped", "Inbound messages dropped as malformed")
)

func newCounter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return counter
}
