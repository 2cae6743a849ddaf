package sqlite

import (
	"context"

	"github.com/example/resort-scheduler/internal/persistence"
)

var (
	_ persistence.BookingRepository = (*Store)(nil)
	_ persistence.VenueRepository   = (*Store)(nil)
)

// Store bundles the booking and venue repositories over one connection pool.
type Store struct {
	*BookingRepository
	*VenueRepository
	pool *ConnectionPool
}

// OpenStore opens and migrates the database and returns a ready Store.
func OpenStore(ctx context.Context, config Config) (*Store, error) {
	pool, err := Open(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Store{
		BookingRepository: NewBookingRepository(pool),
		VenueRepository:   NewVenueRepository(pool),
		pool:              pool,
	}, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	return s.pool.Close()
}
