package benchmarkrepo

import (
	"context"
	"strings"
	"sync"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// MemoryStore is an in-memory BenchmarkStore used for tests, local dev and
// snapshot-seeded deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.JobRecord
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed replaces the catalog contents.
func (s *MemoryStore) Seed(records []domain.JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.JobRecord(nil), records...)
}

// List implements recommendation.BenchmarkStore.
func (s *MemoryStore) List(_ context.Context, familyFilter string) ([]domain.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JobRecord, 0, len(s.records))
	for _, record := range s.records {
		if familyFilter != "" && !strings.EqualFold(record.JobFamily, familyFilter) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

var _ domain.BenchmarkStore = (*MemoryStore)(nil)
