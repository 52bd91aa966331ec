package locationrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

func TestMemoryStoreLookupIsCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	store.Seed([]domain.LocationIndexEntry{
		{Location: "Penang", IndexMultiplier: 1.05},
	})

	entry, ok, err := store.Get(context.Background(), "  penang ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.05, entry.IndexMultiplier)

	_, ok, err = store.Get(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.False(t, ok)
}
