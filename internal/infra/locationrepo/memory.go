package locationrepo

import (
	"context"
	"strings"
	"sync"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// MemoryStore is an in-memory LocationIndexStore for tests, local dev and
// snapshot-seeded deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.LocationIndexEntry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.LocationIndexEntry)}
}

// Seed replaces the stored entries.
func (s *MemoryStore) Seed(entries []domain.LocationIndexEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.LocationIndexEntry, len(entries))
	for _, entry := range entries {
		s.entries[strings.ToLower(entry.Location)] = entry
	}
}

// Get implements recommendation.LocationIndexStore.
func (s *MemoryStore) Get(_ context.Context, location string) (domain.LocationIndexEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[strings.ToLower(strings.TrimSpace(location))]
	return entry, ok, nil
}

var _ domain.LocationIndexStore = (*MemoryStore)(nil)
