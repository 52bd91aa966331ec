package marketrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

func TestMemoryStoreGroupsRowsByJobCode(t *testing.T) {
	store := NewMemoryStore()
	store.Seed([]domain.MarketDataRow{
		{JobCode: "J1", P50: 9000},
		{JobCode: "J1", Location: "Singapore", P50: 9500},
		{JobCode: "J2", P50: 7000},
	})

	rows, err := store.RowsFor(context.Background(), "J1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = store.RowsFor(context.Background(), "J3")
	require.NoError(t, err)
	require.Empty(t, rows)
}
