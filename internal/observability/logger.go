package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

// traceHandler stamps every record with the trace and span ids from the
// request context so log lines can be joined to exported spans.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, rec slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		rec.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, rec)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

var (
	loggerOnce    sync.Once
	defaultLogger *slog.Logger
)

// Logger returns the process-wide structured logger: JSON on stdout, level
// from LOG_LEVEL (debug, info, warn, error), trace correlation when the
// context carries a span.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		base := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		defaultLogger = slog.New(traceHandler{base}).With(
			slog.String("service", envOr("SERVICE_NAME", "familyalbum-server")),
		)
	})
	return defaultLogger
}
