package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequestIDFromContext(r.Context())
		if !ok {
			t.Errorf("expected request id in context")
		}
		if LoggerFromContext(r.Context()) == nil {
			t.Errorf("expected logger in context")
		}
		seen = id
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates an id when none is sent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("expected handler status to pass through, got %d", rec.Code)
		}
		if got := rec.Header().Get(RequestIDHeader); got == "" || got != seen {
			t.Fatalf("expected generated id %q echoed, got %q", seen, got)
		}
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "front-desk-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if seen != "front-desk-42" || rec.Header().Get(RequestIDHeader) != "front-desk-42" {
			t.Fatalf("expected caller id to be kept, got %q", seen)
		}
	})
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	t.Parallel()

	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.status != http.StatusCreated {
		t.Fatalf("expected first status to win, got %d", rec.status)
	}
}
