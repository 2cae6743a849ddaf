package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/resort-scheduler/internal/application"
	"github.com/example/resort-scheduler/internal/scheduler"
)

type bookingService interface {
	CheckConflicts(ctx context.Context, booking scheduler.Booking) (application.ConflictCheck, error)
	BookingDays(ctx context.Context, bookingID string, draft *scheduler.Session) (application.BookingDays, error)
	ValidateSession(ctx context.Context, session scheduler.Session) []scheduler.Violation
}

// maxBodyBytes bounds editor payloads.
const maxBodyBytes = 1 << 20

// BookingHandler serves the editor-facing checks for a single booking.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// CheckConflicts validates the posted booking and lists the sessions that
// collide with other occupants. Conflicts are reported with 200.
func (h *BookingHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "CheckConflicts", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CheckConflicts", "booking_id", req.ID)
	check, err := h.service.CheckConflicts(r.Context(), req.toBooking())
	if err != nil {
		logger.ErrorContext(r.Context(), "conflict check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := conflictCheckResponse{
		Valid:        len(check.Violations) == 0,
		HasConflicts: check.HasConflicts(),
		Violations:   toViolationDTOs(check.Violations),
		Sessions:     make([]sessionConflictDTO, 0, len(check.Sessions)),
	}
	for _, s := range check.Sessions {
		resp.Sessions = append(resp.Sessions, sessionConflictDTO{SessionID: s.SessionID, Conflicts: toConflictDTOs(s.Conflicts)})
	}
	logger.InfoContext(r.Context(), "conflict check completed", "has_conflicts", resp.HasConflicts, "violations", len(resp.Violations))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Days returns the per-day breakdown of a stored booking. A POST body of
// {"draft": session} overlays the session being edited.
func (h *BookingHandler) Days(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Days", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}
	logger := h.log(r.Context(), "Days", "booking_id", bookingID)

	var draft *scheduler.Session
	if r.Method == http.MethodPost {
		var req daysRequest
		if err := decodeJSON(w, r, &req); err != nil {
			logger.ErrorContext(r.Context(), "failed to decode draft", "error", err, "error_kind", "bad_request")
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		if req.Draft != nil {
			s := req.Draft.toSession()
			draft = &s
		}
	}

	days, err := h.service.BookingDays(r.Context(), bookingID, draft)
	if err != nil {
		logger.WarnContext(r.Context(), "booking days lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := bookingDaysResponse{
		BookingID:   days.Booking.ID,
		MultiDay:    days.Booking.IsMultiDay(),
		TotalDays:   days.Booking.TotalDays(),
		Days:        make([]dayGroupDTO, 0, len(days.Days)),
		Occurrences: make([]occurrenceDTO, 0, len(days.Occurrences)),
	}
	for _, group := range days.Days {
		dto := dayGroupDTO{Date: group.Key, Sessions: make([]sessionEntryDTO, 0, len(group.Sessions))}
		if group.HasDayNumber {
			n := group.DayNumber
			dto.DayNumber = &n
		}
		for _, entry := range group.Sessions {
			dto.Sessions = append(dto.Sessions, sessionEntryDTO{
				sessionDTO: toSessionDTO(entry.Session),
				Number:     entry.Number,
				Complete:   entry.Complete,
			})
		}
		resp.Days = append(resp.Days, dto)
	}
	for _, occ := range days.Occurrences {
		resp.Occurrences = append(resp.Occurrences, toOccurrenceDTO(occ))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// ValidateSession checks one session as the editor would before saving.
func (h *BookingHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sessionDTO
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "ValidateSession", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session := req.toSession()
	violations := h.service.ValidateSession(r.Context(), session)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionValidationResponse{
		Valid:      len(violations) == 0,
		Complete:   scheduler.IsSessionComplete(session),
		Violations: toViolationDTOs(violations),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type sessionConflictDTO struct {
	SessionID string        `json:"session_id"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type conflictCheckResponse struct {
	Valid        bool                 `json:"valid"`
	HasConflicts bool                 `json:"has_conflicts"`
	Violations   []violationDTO       `json:"violations"`
	Sessions     []sessionConflictDTO `json:"sessions"`
}

type daysRequest struct {
	Draft *sessionDTO `json:"draft"`
}

type sessionEntryDTO struct {
	sessionDTO
	Number   int  `json:"number,omitempty"`
	Complete bool `json:"complete"`
}

type dayGroupDTO struct {
	Date      string            `json:"date"`
	DayNumber *int              `json:"day_number,omitempty"`
	Sessions  []sessionEntryDTO `json:"sessions"`
}

type bookingDaysResponse struct {
	BookingID   string          `json:"booking_id"`
	MultiDay    bool            `json:"multi_day"`
	TotalDays   int             `json:"total_days"`
	Days        []dayGroupDTO   `json:"days"`
	Occurrences []occurrenceDTO `json:"occurrences"`
}

type sessionValidationResponse struct {
	Valid      bool           `json:"valid"`
	Complete   bool           `json:"complete"`
	Violations []violationDTO `json:"violations"`
}
