package benchmarkrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// PostgresStore reads the benchmark job catalog from Postgres. Embeddings
// live in a pgvector column populated by the offline ingestion pipeline.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// List returns catalog jobs, optionally narrowed to one job family.
func (s *PostgresStore) List(ctx context.Context, familyFilter string) ([]domain.JobRecord, error) {
	query := `
		SELECT job_code, title, description, job_family, career_level, embedding
		FROM benchmark_jobs
	`
	args := []any{}
	if familyFilter != "" {
		query += ` WHERE job_family = $1`
		args = append(args, familyFilter)
	}
	query += ` ORDER BY job_code`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.JobRecord
	for rows.Next() {
		var (
			record domain.JobRecord
			vector pgvector.Vector
		)
		if err := rows.Scan(&record.JobCode, &record.Title, &record.Description, &record.JobFamily, &record.CareerLevel, &vector); err != nil {
			return nil, err
		}
		record.Embedding = append([]float32(nil), vector.Slice()...)
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ domain.BenchmarkStore = (*PostgresStore)(nil)
