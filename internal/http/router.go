package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Calendar   *CalendarHandler
	Bookings   *BookingHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Calendar != nil {
		mux.HandleFunc("/healthz", getOnly(cfg.Calendar.Health))
		mux.HandleFunc("/venues", getOnly(cfg.Calendar.Venues))
		mux.HandleFunc("/calendar", getOnly(cfg.Calendar.Calendar))
		mux.HandleFunc("/calendar/conflicts", getOnly(cfg.Calendar.VenueConflicts))
		mux.HandleFunc("/calendar/occupancy", getOnly(cfg.Calendar.Occupancy))
	}

	if cfg.Bookings != nil {
		mux.HandleFunc("/conflicts/check", postOnly(cfg.Bookings.CheckConflicts))
		mux.HandleFunc("/sessions/validate", postOnly(cfg.Bookings.ValidateSession))
		mux.HandleFunc("/bookings/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/bookings/")
			id, suffix, found := strings.Cut(rest, "/")
			if !found || suffix != "days" || strings.TrimSpace(id) == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithBookingID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet, http.MethodPost:
				cfg.Bookings.Days(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func getOnly(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		fn(w, r)
	}
}

func postOnly(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		fn(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
