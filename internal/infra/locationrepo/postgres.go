package locationrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// PostgresStore reads location index multipliers from Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get implements recommendation.LocationIndexStore.
func (s *PostgresStore) Get(ctx context.Context, location string) (domain.LocationIndexEntry, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT location, index_multiplier
		FROM location_index
		WHERE lower(location) = lower($1)
		LIMIT 1
	`, location)
	var entry domain.LocationIndexEntry
	if err := row.Scan(&entry.Location, &entry.IndexMultiplier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LocationIndexEntry{}, false, nil
		}
		return domain.LocationIndexEntry{}, false, err
	}
	return entry, true, nil
}

var _ domain.LocationIndexStore = (*PostgresStore)(nil)
