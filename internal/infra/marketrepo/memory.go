package marketrepo

import (
	"context"
	"sync"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// MemoryStore is an in-memory MarketDataStore for tests, local dev and
// snapshot-seeded deployments.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]domain.MarketDataRow
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]domain.MarketDataRow)}
}

// Seed replaces the stored rows.
func (s *MemoryStore) Seed(rows []domain.MarketDataRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[string][]domain.MarketDataRow, len(rows))
	for _, row := range rows {
		s.rows[row.JobCode] = append(s.rows[row.JobCode], row)
	}
}

// RowsFor implements recommendation.MarketDataStore.
func (s *MemoryStore) RowsFor(_ context.Context, jobCode string) ([]domain.MarketDataRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MarketDataRow(nil), s.rows[jobCode]...), nil
}

var _ domain.MarketDataStore = (*MemoryStore)(nil)
