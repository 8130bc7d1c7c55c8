package repository

import (
	"context"
	"testing"

	"Mansoor88-6/time-tracking-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTargetRepo(t *testing.T) *MonthlyTargetRepository {
	t.Helper()
	return NewMonthlyTargetRepository(testutil.NewTestDB(t))
}

func TestMonthlyTargetRepo_CreateAndGet(t *testing.T) {
	repo := newTargetRepo(t)
	ctx := context.Background()

	target := testutil.NewTestTarget("u1", 2024, 2, 140)
	require.NoError(t, repo.Create(ctx, target))
	require.NotZero(t, target.ID)

	byID, err := repo.GetByID(ctx, "u1", target.ID)
	require.NoError(t, err)
	assert.Equal(t, 29, byID.EndDay, "leap-year February")
	assert.Equal(t, 140.0, byID.TargetHours)

	byPeriod, err := repo.GetByPeriod(ctx, "u1", 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, target.ID, byPeriod.ID)

	_, err = repo.GetByPeriod(ctx, "u2", 2024, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonthlyTargetRepo_Create_DuplicatePeriod(t *testing.T) {
	repo := newTargetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTarget("u1", 2024, 6, 160)))
	err := repo.Create(ctx, testutil.NewTestTarget("u1", 2024, 6, 120))
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, repo.Create(ctx, testutil.NewTestTarget("u2", 2024, 6, 120)))
}

func TestMonthlyTargetRepo_ListByUser_MostRecentFirst(t *testing.T) {
	repo := newTargetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTarget("u1", 2023, 12, 100)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTarget("u1", 2024, 3, 100)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTarget("u1", 2024, 1, 100)))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, [2]int{2024, 3}, [2]int{list[0].Year, list[0].Month})
	assert.Equal(t, [2]int{2024, 1}, [2]int{list[1].Year, list[1].Month})
	assert.Equal(t, [2]int{2023, 12}, [2]int{list[2].Year, list[2].Month})

	empty, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMonthlyTargetRepo_UpdateAndDelete(t *testing.T) {
	repo := newTargetRepo(t)
	ctx := context.Background()

	target := testutil.NewTestTarget("u1", 2024, 6, 160)
	require.NoError(t, repo.Create(ctx, target))

	target.StartDay = 25
	target.EndDay = 5
	target.TargetHours = 150
	require.NoError(t, repo.Update(ctx, target))

	fetched, err := repo.GetByID(ctx, "u1", target.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, fetched.StartDay)
	assert.Equal(t, 5, fetched.EndDay)
	assert.Equal(t, 150.0, fetched.TargetHours)

	assert.ErrorIs(t, repo.Delete(ctx, "u2", target.ID), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", target.ID))
	_, err = repo.GetByID(ctx, "u1", target.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
