package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: fmt.Errorf("booking bk-1: %w", ErrNotFound), want: "not_found"},
		{name: "unavailable", err: ErrUnavailable, want: "unavailable"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "validation", err: &ValidationError{FieldErrors: map[string]string{"from": "required"}}, want: "validation"},
		{name: "other", err: errors.New("boom"), want: "unexpected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tc.err); got != tc.want {
				t.Fatalf("ErrorKind() = %q, want %q", got, tc.want)
			}
		})
	}
}
