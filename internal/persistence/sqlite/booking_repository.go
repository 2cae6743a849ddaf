package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/resort-scheduler/internal/persistence"
	"github.com/google/uuid"
)

// BookingRepository implements persistence.BookingRepository using SQLite
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

// NewBookingRepository creates a new SQLite booking repository
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SaveBooking inserts or replaces a booking and its full session list.
// created_at survives updates; sessions without an id receive a fresh UUID.
func (r *BookingRepository) SaveBooking(ctx context.Context, booking persistence.Booking) (persistence.Booking, error) {
	if strings.TrimSpace(booking.ID) == "" {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(booking.EventDate) == "" {
		return persistence.Booking{}, persistence.ErrConstraintViolation
	}

	// Stored timestamps have second precision; the returned booking must match.
	now := r.now().UTC().Truncate(time.Second)
	booking.UpdatedAt = now
	sessions := make([]persistence.Session, len(booking.Sessions))
	for i, s := range booking.Sessions {
		if strings.TrimSpace(s.ID) == "" {
			s.ID = uuid.NewString()
		}
		s.BookingID = booking.ID
		s.Position = i
		sessions[i] = s
	}
	booking.Sessions = sessions

	err := r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			createdAt := now
			var existing string
			err := tx.QueryRowContext(ctx, `SELECT created_at FROM bookings WHERE id = ?`, booking.ID).Scan(&existing)
			switch {
			case errors.Is(err, sql.ErrNoRows):
			case err != nil:
				return err
			default:
				if parsed, perr := time.Parse(time.RFC3339, existing); perr == nil {
					createdAt = parsed
				}
			}
			booking.CreatedAt = createdAt

			query := `
				INSERT INTO bookings (id, client_name, event_type, status, event_date, event_end_date,
					event_duration, hall, event_start_time, event_end_time, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					client_name = excluded.client_name,
					event_type = excluded.event_type,
					status = excluded.status,
					event_date = excluded.event_date,
					event_end_date = excluded.event_end_date,
					event_duration = excluded.event_duration,
					hall = excluded.hall,
					event_start_time = excluded.event_start_time,
					event_end_time = excluded.event_end_time,
					updated_at = excluded.updated_at
			`
			if _, err := r.helper.ExecTx(ctx, tx, query,
				booking.ID,
				booking.ClientName,
				booking.EventType,
				booking.Status,
				booking.EventDate,
				nullString(booking.EventEndDate),
				nullInt(booking.EventDuration),
				nullString(booking.Hall),
				nullString(booking.EventStartTime),
				nullString(booking.EventEndTime),
				booking.CreatedAt.Format(time.RFC3339),
				booking.UpdatedAt.Format(time.RFC3339),
			); err != nil {
				return err
			}

			// Replace the session list wholesale.
			if _, err := r.helper.ExecTx(ctx, tx, `DELETE FROM booking_sessions WHERE booking_id = ?`, booking.ID); err != nil {
				return err
			}

			insert := `
				INSERT INTO booking_sessions (booking_id, id, position, name, label, venue, session_date,
					start_time, end_time, all_day, guests, instructions)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`
			for _, s := range booking.Sessions {
				if _, err := r.helper.ExecTx(ctx, tx, insert,
					s.BookingID,
					s.ID,
					s.Position,
					s.Name,
					nullString(s.Label),
					s.Venue,
					s.Date,
					s.StartTime,
					s.EndTime,
					s.AllDay,
					nullInt(s.Guests),
					nullString(s.Instructions),
				); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	return booking, nil
}

// GetBooking retrieves a booking and its sessions by ID
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := r.helper.QueryRow(ctx, bookingColumns+` WHERE b.id = ?`, id)
	booking, err := scanBooking(row)
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	sessions, err := r.loadSessions(ctx, `WHERE booking_id = ?`, id)
	if err != nil {
		return persistence.Booking{}, err
	}
	booking.Sessions = sessions[booking.ID]
	return booking, nil
}

// ListBookings returns bookings matching filter ordered by event date then id.
// The window test is generous: it keeps any booking whose stored dates,
// duration, or session dates could touch the window.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	where, args := bookingWhere(filter)
	query := bookingColumns + where + ` ORDER BY b.event_date, b.id`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	if len(bookings) == 0 {
		return []persistence.Booking{}, nil
	}

	sessions, err := r.loadSessions(ctx,
		`WHERE booking_id IN (SELECT b.id FROM bookings b`+where+`)`, args...)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Sessions = sessions[bookings[i].ID]
	}
	return bookings, nil
}

const bookingColumns = `
	SELECT b.id, b.client_name, b.event_type, b.status, b.event_date, b.event_end_date,
		b.event_duration, b.hall, b.event_start_time, b.event_end_time, b.created_at, b.updated_at
	FROM bookings b`

const bookingSpanEnd = `MAX(
		COALESCE(b.event_end_date, b.event_date),
		date(b.event_date, '+' || (MAX(COALESCE(b.event_duration, 1), 1) - 1) || ' days')
	)`

func bookingWhere(filter persistence.BookingFilter) (string, []any) {
	var clauses []string
	var args []any

	if len(filter.ExcludeStatuses) > 0 {
		placeholders := make([]string, 0, len(filter.ExcludeStatuses))
		for _, status := range filter.ExcludeStatuses {
			placeholders = append(placeholders, "?")
			args = append(args, strings.ToLower(strings.TrimSpace(status)))
		}
		clauses = append(clauses, fmt.Sprintf("lower(trim(b.status)) NOT IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.From != nil || filter.To != nil {
		from, to := "0000-01-01", "9999-12-31"
		if filter.From != nil {
			from = *filter.From
		}
		if filter.To != nil {
			to = *filter.To
		}
		clauses = append(clauses, `((b.event_date <= ? AND `+bookingSpanEnd+` >= ?)
			OR EXISTS (SELECT 1 FROM booking_sessions s
				WHERE s.booking_id = b.id AND s.session_date BETWEEN ? AND ?))`)
		args = append(args, to, from, from, to)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking                           persistence.Booking
		endDate, hall, startTime, endTime sql.NullString
		duration                          sql.NullInt64
		createdAt, updatedAt              string
	)
	if err := row.Scan(
		&booking.ID,
		&booking.ClientName,
		&booking.EventType,
		&booking.Status,
		&booking.EventDate,
		&endDate,
		&duration,
		&hall,
		&startTime,
		&endTime,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Booking{}, err
	}

	booking.EventEndDate = stringPtr(endDate)
	booking.EventDuration = intPtr(duration)
	booking.Hall = stringPtr(hall)
	booking.EventStartTime = stringPtr(startTime)
	booking.EventEndTime = stringPtr(endTime)

	var err error
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return booking, nil
}

// loadSessions returns sessions keyed by booking id, each list in saved order.
func (r *BookingRepository) loadSessions(ctx context.Context, where string, args ...any) (map[string][]persistence.Session, error) {
	query := `
		SELECT booking_id, id, position, name, label, venue, session_date, start_time, end_time,
			all_day, guests, instructions
		FROM booking_sessions ` + where + `
		ORDER BY booking_id, position`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	out := make(map[string][]persistence.Session)
	for rows.Next() {
		var (
			s                   persistence.Session
			label, instructions sql.NullString
			guests              sql.NullInt64
		)
		if err := rows.Scan(
			&s.BookingID,
			&s.ID,
			&s.Position,
			&s.Name,
			&label,
			&s.Venue,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.AllDay,
			&guests,
			&instructions,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		s.Label = stringPtr(label)
		s.Guests = intPtr(guests)
		s.Instructions = stringPtr(instructions)
		out[s.BookingID] = append(out[s.BookingID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return out, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
