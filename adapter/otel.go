package adapter

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/ringchan/pkg/channel"
)

const instrumentationName = "github.com/srediag/ringchan"

// OTelObserver reports channel events to OpenTelemetry. Every operation is
// counted; blocking waits and closes are also recorded as spans, back-dated
// to when the wait started.
type OTelObserver struct {
	tracer    trace.Tracer
	ops       metric.Int64Counter
	discarded metric.Int64Counter
	waits     metric.Float64Histogram
}

var _ channel.Observer = (*OTelObserver)(nil)

// NewOTelObserver builds the instruments on meter. A nil meter or tracer
// falls back to the no-op implementation.
func NewOTelObserver(meter metric.Meter, tracer trace.Tracer) (*OTelObserver, error) {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	ops, err := meter.Int64Counter("ringchan.operations",
		metric.WithDescription("Channel operations by kind and result."),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, err
	}
	discarded, err := meter.Int64Counter("ringchan.discarded",
		metric.WithDescription("Buffered values dropped by close."),
		metric.WithUnit("{value}"))
	if err != nil {
		return nil, err
	}
	waits, err := meter.Float64Histogram("ringchan.wait.duration",
		metric.WithDescription("Time blocking operations spent waiting for space or data."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &OTelObserver{
		tracer:    tracer,
		ops:       ops,
		discarded: discarded,
		waits:     waits,
	}, nil
}

// Observe implements channel.Observer.
func (o *OTelObserver) Observe(ev channel.Event) {
	ctx := context.Background()
	chanAttr := attribute.String("ringchan.channel", ev.Channel)
	opAttr := attribute.String("ringchan.op", ev.Op.String())

	o.ops.Add(ctx, 1, metric.WithAttributes(chanAttr, opAttr,
		attribute.String("ringchan.result", channel.ResultLabel(ev.Err))))
	if ev.Discarded > 0 {
		o.discarded.Add(ctx, int64(ev.Discarded), metric.WithAttributes(chanAttr))
	}
	if ev.Waited > 0 {
		o.waits.Record(ctx, ev.Waited.Seconds(), metric.WithAttributes(chanAttr, opAttr))
	}

	if ev.Waited == 0 && ev.Op != channel.OpClose {
		return
	}
	end := time.Now()
	_, span := o.tracer.Start(ctx, "ringchan."+ev.Op.String(),
		trace.WithTimestamp(end.Add(-ev.Waited)),
		trace.WithAttributes(chanAttr, attribute.Int("ringchan.len", ev.Len)))
	if ev.Op == channel.OpClose {
		span.SetAttributes(attribute.Int("ringchan.discarded", ev.Discarded))
	}
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, channel.ResultLabel(ev.Err))
	}
	span.End(trace.WithTimestamp(end))
}
