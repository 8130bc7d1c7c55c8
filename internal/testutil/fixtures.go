package testutil

import (
	"time"

	"Mansoor88-6/time-tracking-backend/internal/models"
)

type EntryOption func(*models.TimeEntry)

// WithEnd closes the entry at end and sets total hours the way the
// reconciler would.
func WithEnd(end time.Time) EntryOption {
	return func(e *models.TimeEntry) {
		e.EndTime = &end
		if end.After(e.StartTime) {
			h := end.Sub(e.StartTime).Hours()
			e.TotalHours = &h
		}
	}
}

func WithUnconfirmed() EntryOption {
	return func(e *models.TimeEntry) {
		e.IsConfirmed = false
	}
}

func WithPhoto(path string) EntryOption {
	return func(e *models.TimeEntry) {
		e.PhotoPath = &path
	}
}

// NewTestEntry builds a confirmed open entry dated on start's calendar day.
func NewTestEntry(userID string, start time.Time, opts ...EntryOption) *models.TimeEntry {
	e := &models.TimeEntry{
		UserID:      userID,
		Date:        start.Format(models.DateLayout),
		StartTime:   start,
		SourceText:  models.ManualSourceText,
		IsConfirmed: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type TargetOption func(*models.MonthlyTarget)

func WithDays(startDay, endDay int) TargetOption {
	return func(t *models.MonthlyTarget) {
		t.StartDay = startDay
		t.EndDay = endDay
	}
}

// NewTestTarget builds a target covering the whole calendar month.
func NewTestTarget(userID string, year, month int, hours float64, opts ...TargetOption) *models.MonthlyTarget {
	t := &models.MonthlyTarget{
		UserID:      userID,
		Year:        year,
		Month:       month,
		StartDay:    1,
		EndDay:      time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day(),
		TargetHours: hours,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
