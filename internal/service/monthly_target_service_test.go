package service

import (
	"context"
	"testing"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/repository"
	"Mansoor88-6/time-tracking-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type targetFixture struct {
	svc     *MonthlyTargetService
	entries *repository.TimeEntryRepository
}

func newTargetFixture(t *testing.T) targetFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return targetFixture{
		svc:     NewMonthlyTargetService(db, testutil.NewTestUoW(db), zap.NewNop()),
		entries: repository.NewTimeEntryRepository(db),
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateTarget_DefaultsToWholeMonth(t *testing.T) {
	f := newTargetFixture(t)

	target, err := f.svc.CreateTarget(context.Background(), "u1", &models.CreateMonthlyTargetRequest{
		Year: 2024, Month: 2, TargetHours: 140,
	})
	require.NoError(t, err)
	assert.NotZero(t, target.ID)
	assert.Equal(t, 1, target.StartDay)
	assert.Equal(t, 29, target.EndDay)
}

func TestCreateTarget_Conflict(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	req := &models.CreateMonthlyTargetRequest{Year: 2024, Month: 6, TargetHours: 160}
	_, err := f.svc.CreateTarget(ctx, "u1", req)
	require.NoError(t, err)

	_, err = f.svc.CreateTarget(ctx, "u1", req)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.CreateTarget(ctx, "u2", req)
	assert.NoError(t, err)
}

func TestCreateTarget_Invalid(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	for _, req := range []*models.CreateMonthlyTargetRequest{
		{Year: 2024, Month: 13, TargetHours: 160},
		{Year: 2019, Month: 6, TargetHours: 160},
		{Year: 2024, Month: 6, TargetHours: 0},
		{Year: 2024, Month: 6, TargetHours: 160, EndDay: intPtr(31)},
		{Year: 2023, Month: 2, TargetHours: 160, StartDay: intPtr(29)},
	} {
		_, err := f.svc.CreateTarget(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidSubmission)
	}
}

func TestUpdateTarget(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTarget(ctx, "u1", &models.CreateMonthlyTargetRequest{
		Year: 2024, Month: 6, TargetHours: 160, StartDay: intPtr(25), EndDay: intPtr(5),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateTarget(ctx, "u1", created.ID, &models.UpdateMonthlyTargetRequest{TargetHours: floatPtr(120)})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.TargetHours)
	assert.Equal(t, 25, updated.StartDay)
	assert.Equal(t, 5, updated.EndDay)

	// June has 30 days.
	_, err = f.svc.UpdateTarget(ctx, "u1", created.ID, &models.UpdateMonthlyTargetRequest{EndDay: intPtr(31)})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
	_, err = f.svc.UpdateTarget(ctx, "u1", created.ID, &models.UpdateMonthlyTargetRequest{TargetHours: floatPtr(-3)})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = f.svc.UpdateTarget(ctx, "u2", created.ID, &models.UpdateMonthlyTargetRequest{TargetHours: floatPtr(10)})
	assert.ErrorIs(t, err, ErrNotFound)

	progress, err := f.svc.GetProgress(ctx, "u1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 120.0, progress.Target.TargetHours)
	assert.Equal(t, 25, progress.Target.StartDay)
}

func TestDeleteTarget(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateTarget(ctx, "u1", &models.CreateMonthlyTargetRequest{Year: 2024, Month: 6, TargetHours: 160})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteTarget(ctx, "u2", created.ID), ErrNotFound)
	require.NoError(t, f.svc.DeleteTarget(ctx, "u1", created.ID))
	assert.ErrorIs(t, f.svc.DeleteTarget(ctx, "u1", created.ID), ErrNotFound)
}

func TestListTargets(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	for _, period := range [][2]int{{2024, 1}, {2025, 2}, {2024, 11}} {
		_, err := f.svc.CreateTarget(ctx, "u1", &models.CreateMonthlyTargetRequest{Year: period[0], Month: period[1], TargetHours: 100})
		require.NoError(t, err)
	}

	targets, err := f.svc.ListTargets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, 2025, targets[0].Year)
	assert.Equal(t, 11, targets[1].Month)
	assert.Equal(t, 1, targets[2].Month)
}

func TestGetProgress_WrapWindow(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTarget(ctx, "u1", &models.CreateMonthlyTargetRequest{
		Year: 2024, Month: 1, TargetHours: 160, StartDay: intPtr(25), EndDay: intPtr(5),
	})
	require.NoError(t, err)

	day := func(m time.Month, d, h int) time.Time { return time.Date(2024, m, d, h, 0, 0, 0, time.UTC) }
	for _, e := range []*models.TimeEntry{
		testutil.NewTestEntry("u1", day(1, 24, 8), testutil.WithEnd(day(1, 24, 18))),
		testutil.NewTestEntry("u1", day(1, 25, 8), testutil.WithEnd(day(1, 25, 18))),
		testutil.NewTestEntry("u1", day(2, 5, 8), testutil.WithEnd(day(2, 5, 18))),
		testutil.NewTestEntry("u1", day(2, 6, 8), testutil.WithEnd(day(2, 6, 18))),
		testutil.NewTestEntry("u1", day(1, 30, 8), testutil.WithEnd(day(1, 30, 18)), testutil.WithUnconfirmed()),
		testutil.NewTestEntry("u2", day(1, 27, 8), testutil.WithEnd(day(1, 27, 18))),
	} {
		require.NoError(t, f.entries.Create(ctx, e))
	}

	progress, err := f.svc.GetProgress(ctx, "u1", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-25", progress.WindowStart)
	assert.Equal(t, "2024-02-06", progress.WindowEnd)
	assert.Equal(t, 20.0, progress.CurrentHours)
	assert.Equal(t, 140.0, progress.RemainingHours)
	assert.Equal(t, 12.5, progress.ProgressPercentage)
}

func TestGetProgress_NotFound(t *testing.T) {
	f := newTargetFixture(t)

	_, err := f.svc.GetProgress(context.Background(), "u1", 2024, 6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCurrentProgress_UsesClock(t *testing.T) {
	f := newTargetFixture(t)
	ctx := context.Background()
	f.svc.WithClock(func() time.Time { return time.Date(2024, 6, 17, 10, 0, 0, 0, time.UTC) })

	_, err := f.svc.GetCurrentProgress(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateTarget(ctx, "u1", &models.CreateMonthlyTargetRequest{Year: 2024, Month: 6, TargetHours: 160})
	require.NoError(t, err)

	progress, err := f.svc.GetCurrentProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, progress.Target.Month)
	assert.Equal(t, 160.0, progress.RemainingHours)
	assert.Equal(t, 0.0, progress.ProgressPercentage)
}
