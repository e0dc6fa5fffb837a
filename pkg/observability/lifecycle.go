package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Kinded is implemented by domain errors that carry a stable kind label.
type Kinded interface {
	ErrorKind() string
}

// Lifecycle counts appointment operations by name and outcome.
type Lifecycle struct {
	ops metric.Int64Counter
}

func NewLifecycle() (*Lifecycle, error) {
	meter := otel.Meter(tracerName)
	ops, err := meter.Int64Counter(
		"appointment_operations_total",
		metric.WithDescription("Appointment operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}
	return &Lifecycle{ops: ops}, nil
}

// Record adds one sample for op. A nil receiver is a no-op.
func (l *Lifecycle) Record(ctx context.Context, op string, err error) {
	if l == nil {
		return
	}
	outcome, kind := "ok", ""
	if err != nil {
		outcome, kind = "error", "unknown"
		var k Kinded
		if errors.As(err, &k) {
			kind = k.ErrorKind()
		}
	}
	l.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
		attribute.String("error_kind", kind),
	))
}
