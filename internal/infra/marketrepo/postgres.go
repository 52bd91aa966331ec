package marketrepo

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// PostgresStore reads market-data rows from Postgres. Rows are an immutable
// snapshot refreshed by an external batch process.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// RowsFor returns every salary row known for the job code. A NULL location
// marks the default (nationwide) row.
func (s *PostgresStore) RowsFor(ctx context.Context, jobCode string) ([]domain.MarketDataRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT job_code, location, p25, p50, p75, sample_size, as_of_date
		FROM market_data
		WHERE job_code = $1
	`, jobCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MarketDataRow
	for rows.Next() {
		var (
			row      domain.MarketDataRow
			location sql.NullString
		)
		if err := rows.Scan(&row.JobCode, &location, &row.P25, &row.P50, &row.P75, &row.SampleSize, &row.AsOfDate); err != nil {
			return nil, err
		}
		if location.Valid {
			row.Location = location.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ domain.MarketDataStore = (*PostgresStore)(nil)
