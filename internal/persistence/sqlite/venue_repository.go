package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/resort-scheduler/internal/persistence"
)

// VenueRepository implements persistence.VenueRepository using SQLite
type VenueRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewVenueRepository creates a new SQLite venue repository
func NewVenueRepository(pool *ConnectionPool) *VenueRepository {
	return &VenueRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertVenue inserts a venue or refreshes the stored row with the same id.
func (r *VenueRepository) UpsertVenue(ctx context.Context, venue persistence.Venue) error {
	if strings.TrimSpace(venue.ID) == "" || strings.TrimSpace(venue.Name) == "" {
		return persistence.ErrConstraintViolation
	}
	if venue.Capacity != nil && *venue.Capacity < 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO venues (id, name, capacity, area, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			area = excluded.area,
			updated_at = excluded.updated_at
	`
	_, err := r.helper.Exec(ctx, query,
		venue.ID,
		venue.Name,
		nullInt(venue.Capacity),
		nullString(venue.Area),
		now,
		now,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetVenue retrieves a venue by ID
func (r *VenueRepository) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	row := r.helper.QueryRow(ctx, venueColumns+` WHERE id = ?`, id)
	venue, err := scanVenue(row)
	if err != nil {
		return persistence.Venue{}, r.mapper.MapError(err)
	}
	return venue, nil
}

// ListVenues returns the catalogue ordered by name.
func (r *VenueRepository) ListVenues(ctx context.Context) ([]persistence.Venue, error) {
	rows, err := r.helper.Query(ctx, venueColumns+` ORDER BY name, id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	venues := []persistence.Venue{}
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return venues, nil
}

const venueColumns = `SELECT id, name, capacity, area, created_at, updated_at FROM venues`

func scanVenue(row rowScanner) (persistence.Venue, error) {
	var (
		venue                persistence.Venue
		capacity             sql.NullInt64
		area                 sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&venue.ID, &venue.Name, &capacity, &area, &createdAt, &updatedAt); err != nil {
		return persistence.Venue{}, err
	}
	venue.Capacity = intPtr(capacity)
	venue.Area = stringPtr(area)

	var err error
	if venue.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Venue{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if venue.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Venue{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return venue, nil
}
