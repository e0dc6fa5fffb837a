package logs

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/scheduleease/pkg/reqctx"
)

// contextHandler adds the request id, client ip, user id and trace id of a
// request context to each record.
type contextHandler struct {
	slog.Handler
}

func newContextHandler(h slog.Handler) *contextHandler {
	return &contextHandler{Handler: h}
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if ip := reqctx.ClientIPFromContext(ctx); ip != "" {
		r.AddAttrs(slog.String("client_ip", ip))
	}
	if uid, ok := reqctx.UserIDFromContext(ctx); ok && uid != "" {
		r.AddAttrs(slog.String("user_id", uid))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newContextHandler(h.Handler.WithAttrs(attrs))
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return newContextHandler(h.Handler.WithGroup(name))
}
