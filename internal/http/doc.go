// Package http exposes the venue scheduling engine as a read-only JSON API.
//
// The router exposes the following endpoints:
//   - GET /healthz: 200 with the snapshot fingerprint once bookings are
//     loaded, 503 before that.
//   - GET /venues: the venue catalogue.
//   - GET /calendar?from=YYYY-MM-DD&to=YYYY-MM-DD: every booking occurrence in
//     the inclusive window with its role, cell half and ringed flag.
//   - GET /calendar/conflicts?date=YYYY-MM-DD: names of venues double-booked
//     on the date.
//   - GET /calendar/occupancy?date=YYYY-MM-DD: per-venue slots of the date,
//     sorted by start, with a conflicted flag.
//   - POST /conflicts/check: body is the `bookingRequest` of dto.go. Returns
//     validation violations and per-session conflicts; both are data and the
//     status is 200.
//   - GET /bookings/{id}/days, POST /bookings/{id}/days: day groups, session
//     numbers and occurrences of a stored booking. POST accepts
//     {"draft": session} to overlay the session being edited.
//   - POST /sessions/validate: field violations for one `sessionDTO`.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
