package http

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLoggerTagsBookingFromPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := ContextWithBookingID(context.Background(), "bk-42")
	handlerLogger(ctx, base, "BookingHandler", "Days").Info("hit")
	out := buf.String()
	for _, want := range []string{"handler=BookingHandler", "operation=Days", "booking_id=bk-42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	buf.Reset()
	handlerLogger(ctx, base, "BookingHandler", "Days", "booking_id", "bk-42").Info("hit")
	if got := strings.Count(buf.String(), "booking_id="); got != 1 {
		t.Fatalf("expected booking_id once, got %d in %q", got, buf.String())
	}
}

func TestHandlerLoggerPrefersRequestLogger(t *testing.T) {
	t.Parallel()

	var fallback, request bytes.Buffer
	ctx := ContextWithLogger(context.Background(), slog.New(slog.NewTextHandler(&request, nil)))
	handlerLogger(ctx, slog.New(slog.NewTextHandler(&fallback, nil)), "CalendarHandler", "").Info("hit")

	if fallback.Len() != 0 || !strings.Contains(request.String(), "handler=CalendarHandler") {
		t.Fatalf("expected the request logger to be used, fallback=%q request=%q", fallback.String(), request.String())
	}
	if strings.Contains(request.String(), "operation=") {
		t.Fatalf("empty operation must be omitted: %q", request.String())
	}
}
