package observability

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/scheduleease/pkg/reqctx"
)

const (
	tracerName    = "github.com/Alijeyrad/scheduleease/pkg/observability"
	HeaderTraceID = "X-Trace-Id"
)

// FiberMiddleware opens a server span per request, continuing any incoming
// W3C trace context, and records request count and latency by route.
// Register it after the request id middleware so spans carry the id.
func FiberMiddleware(serviceName string) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)

	requests, _ := meter.Int64Counter(
		"http_server_request_count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	latency, _ := meter.Float64Histogram(
		"http_server_request_duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	return func(c fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		attrs := []attribute.KeyValue{
			attribute.String("service.name", serviceName),
			attribute.String("http.method", c.Method()),
			attribute.String("http.url", string(c.Request().URI().FullURI())),
			attribute.String("http.client_ip", c.IP()),
			attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
		}
		if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
			attrs = append(attrs, attribute.String("request.id", rid))
		}

		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceID, sc.TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		// The matched route is only known after routing.
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		labels := metric.WithAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		requests.Add(ctx, 1, labels)
		latency.Record(ctx, elapsed, labels)

		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
			if err != nil {
				span.RecordError(err)
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
