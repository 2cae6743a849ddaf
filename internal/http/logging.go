package http

import (
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// handlerLogger prefers the request logger installed by RequestLogger and
// tags it with the handler, the operation and the booking resolved from the
// path, when there is one.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	pairs := []any{"handler", handlerName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if id, ok := BookingIDFromContext(ctx); ok && !hasAttr(attrs, "booking_id") {
		pairs = append(pairs, "booking_id", id)
	}
	return logger.With(append(pairs, attrs...)...)
}

func hasAttr(attrs []any, key string) bool {
	for i := 0; i+1 < len(attrs); i += 2 {
		if k, ok := attrs[i].(string); ok && k == key {
			return true
		}
	}
	return false
}
