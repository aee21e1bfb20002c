package repository_test

import (
	"context"
	"testing"

	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberSequenceRepository_GetNextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	current, err := repo.GetCurrentSequence(ctx, "LEAD", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	for want := 1; want <= 3; want++ {
		got, err := repo.GetNextNumber(ctx, "LEAD", 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// sequences are independent per year
	got, err := repo.GetNextNumber(ctx, "LEAD", 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	current, err = repo.GetCurrentSequence(ctx, "LEAD", 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, current)
}
