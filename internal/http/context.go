package http

import (
	"context"
	"log/slog"

	"github.com/example/resort-scheduler/internal/logging"
)

type contextKey string

const (
	bookingIDContextKey contextKey = "booking_id"
	requestIDContextKey contextKey = "request_id"
)

// ContextWithLogger attaches the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID string) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(string)
	return id, ok
}

// ContextWithRequestID records the identifier assigned by RequestLogger.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request identifier, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}
