package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/resort-scheduler/internal/application"
	"github.com/example/resort-scheduler/internal/scheduler"
)

type calendarService interface {
	Venues(ctx context.Context) ([]scheduler.Venue, error)
	Calendar(ctx context.Context, params application.CalendarParams) ([]application.CalendarEntry, error)
	VenueConflicts(ctx context.Context, date string) ([]string, error)
	Occupancy(ctx context.Context, date string) ([]scheduler.VenueOccupancy, error)
	Status() application.Status
}

// CalendarHandler serves the read-only calendar views.
type CalendarHandler struct {
	service   calendarService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

func (h *CalendarHandler) Venues(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	venues, err := h.service.Venues(r.Context())
	if err != nil {
		h.log(r.Context(), "Venues").ErrorContext(r.Context(), "venue listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := venuesResponse{Venues: make([]venueDTO, 0, len(venues))}
	for _, v := range venues {
		resp.Venues = append(resp.Venues, venueDTO{ID: v.ID, Name: v.Name, Capacity: v.Capacity, Area: v.Area})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *CalendarHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	params := application.CalendarParams{From: query.Get("from"), To: query.Get("to")}
	logger := h.log(r.Context(), "Calendar", "from", params.From, "to", params.To)

	entries, err := h.service.Calendar(r.Context(), params)
	if err != nil {
		logger.WarnContext(r.Context(), "calendar request failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := calendarResponse{From: params.From, To: params.To, Entries: make([]calendarEntryDTO, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, calendarEntryDTO{
			BookingID:     e.BookingID,
			ClientName:    e.ClientName,
			EventType:     e.EventType,
			Status:        e.Status,
			Ringed:        e.Ringed,
			occurrenceDTO: toOccurrenceDTO(e.Occurrence),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *CalendarHandler) VenueConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	venues, err := h.service.VenueConflicts(r.Context(), date)
	if err != nil {
		h.log(r.Context(), "VenueConflicts", "date", date).WarnContext(r.Context(), "venue conflict lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if venues == nil {
		venues = []string{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, venueConflictsResponse{Date: date, Venues: venues})
}

func (h *CalendarHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	occupancy, err := h.service.Occupancy(r.Context(), date)
	if err != nil {
		h.log(r.Context(), "Occupancy", "date", date).WarnContext(r.Context(), "occupancy lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, occupancyResponse{Date: date, Venues: toOccupancyDTOs(occupancy)})
}

// Health reports 503 until the first snapshot has been loaded.
func (h *CalendarHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := h.service.Status()
	resp := healthResponse{Status: "starting"}
	code := http.StatusServiceUnavailable
	if status.Ready {
		code = http.StatusOK
		resp = healthResponse{
			Status:      "ok",
			Fingerprint: status.Fingerprint,
			LoadedAt:    status.LoadedAt.UTC().Format(time.RFC3339),
			Bookings:    status.Bookings,
			Venues:      status.Venues,
		}
	}
	h.responder.writeJSON(r.Context(), w, code, resp)
}

type venueDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity *int   `json:"capacity,omitempty"`
	Area     string `json:"area,omitempty"`
}

type venuesResponse struct {
	Venues []venueDTO `json:"venues"`
}

type calendarEntryDTO struct {
	BookingID  string `json:"booking_id"`
	ClientName string `json:"client_name"`
	EventType  string `json:"event_type,omitempty"`
	Status     string `json:"status,omitempty"`
	Ringed     bool   `json:"ringed"`
	occurrenceDTO
}

type calendarResponse struct {
	From    string             `json:"from"`
	To      string             `json:"to"`
	Entries []calendarEntryDTO `json:"entries"`
}

type venueConflictsResponse struct {
	Date   string   `json:"date"`
	Venues []string `json:"venues"`
}

type occupancyResponse struct {
	Date   string         `json:"date"`
	Venues []occupancyDTO `json:"venues"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint,omitempty"`
	LoadedAt    string `json:"loaded_at,omitempty"`
	Bookings    int    `json:"bookings"`
	Venues      int    `json:"venues"`
}
