package service

import (
	"fmt"
	"math"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/models"
)

const (
	minTargetYear = 2020
	maxTargetYear = 2030
)

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ResolveWindow returns the half-open date range [start, end) measured by
// target. When EndDay is before StartDay the window runs into the following
// month.
func ResolveWindow(target *models.MonthlyTarget) (time.Time, time.Time, error) {
	if target.Month < 1 || target.Month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidWindow, target.Month)
	}
	lastDay := DaysInMonth(target.Year, target.Month)
	if target.StartDay < 1 || target.StartDay > lastDay {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start day %d outside 1..%d", ErrInvalidWindow, target.StartDay, lastDay)
	}
	if target.EndDay < 1 || target.EndDay > lastDay {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end day %d outside 1..%d", ErrInvalidWindow, target.EndDay, lastDay)
	}

	month := time.Month(target.Month)
	start := time.Date(target.Year, month, target.StartDay, 0, 0, 0, 0, time.UTC)
	if target.EndDay >= target.StartDay {
		return start, time.Date(target.Year, month, target.EndDay+1, 0, 0, 0, 0, time.UTC), nil
	}
	// time.Date normalizes month 13 into January of the next year. The end
	// day is capped at the length of the following month.
	next := time.Date(target.Year, month+1, 1, 0, 0, 0, 0, time.UTC)
	endDay := min(target.EndDay, DaysInMonth(next.Year(), int(next.Month())))
	return start, next.AddDate(0, 0, endDay), nil
}

// ComputeProgress sums the confirmed hours of entries dated inside the
// target's window.
func ComputeProgress(target *models.MonthlyTarget, entries []*models.TimeEntry) (*models.TargetProgress, error) {
	start, end, err := ResolveWindow(target)
	if err != nil {
		return nil, err
	}
	from, to := start.Format(models.DateLayout), end.Format(models.DateLayout)

	var current float64
	for _, e := range entries {
		if !e.IsConfirmed || e.TotalHours == nil {
			continue
		}
		if e.Date < from || e.Date >= to {
			continue
		}
		current += *e.TotalHours
	}

	remaining := math.Max(0, target.TargetHours-current)
	var percent float64
	if target.TargetHours > 0 {
		percent = math.Min(100, current/target.TargetHours*100)
	}

	return &models.TargetProgress{
		Target:             *target,
		WindowStart:        from,
		WindowEnd:          to,
		CurrentHours:       roundTo(current, 2),
		RemainingHours:     roundTo(remaining, 2),
		ProgressPercentage: roundTo(percent, 1),
	}, nil
}

// ValidateTargetData checks a target candidate before it is stored.
func ValidateTargetData(target *models.MonthlyTarget) error {
	if target.Month < 1 || target.Month > 12 {
		return invalidf("month must be between 1 and 12")
	}
	if target.Year < minTargetYear || target.Year > maxTargetYear {
		return invalidf("year must be between %d and %d", minTargetYear, maxTargetYear)
	}
	if target.TargetHours <= 0 {
		return invalidf("target hours must be greater than 0")
	}
	lastDay := DaysInMonth(target.Year, target.Month)
	if target.StartDay < 1 || target.StartDay > lastDay {
		return invalidf("start day must be between 1 and %d", lastDay)
	}
	if target.EndDay < 1 || target.EndDay > lastDay {
		return invalidf("end day must be between 1 and %d", lastDay)
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
