package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/repository"

	"go.uber.org/zap"
)

// PhotoStore is the part of the photo storage the services rely on.
type PhotoStore interface {
	Exists(path string) bool
	Remove(path string) error
}

// Submission is one half of a work session: either a start or an end time,
// never both.
type Submission struct {
	UserID     string
	StartTime  *time.Time
	EndTime    *time.Time
	SourceText string
	PhotoPath  *string
}

type TimeEntryService struct {
	db     database.DBTX
	uow    database.UnitOfWork
	photos PhotoStore
	logger *zap.Logger
}

func NewTimeEntryService(db database.DBTX, uow database.UnitOfWork, photos PhotoStore, logger *zap.Logger) *TimeEntryService {
	return &TimeEntryService{
		db:     db,
		uow:    uow,
		photos: photos,
		logger: logger,
	}
}

// Submit opens a new entry for a start time or closes the open entry of the
// end time's date. The lookup and the write run in one transaction.
func (s *TimeEntryService) Submit(ctx context.Context, sub Submission) (*models.TimeEntry, error) {
	if sub.StartTime == nil && sub.EndTime == nil {
		return nil, invalidf("either start time or end time is required")
	}
	if sub.StartTime != nil && sub.EndTime != nil {
		return nil, invalidf("start time and end time must be submitted separately")
	}
	if strings.TrimSpace(sub.UserID) == "" {
		return nil, invalidf("user is required")
	}
	if sub.PhotoPath != nil && (s.photos == nil || !s.photos.Exists(*sub.PhotoPath)) {
		return nil, invalidf("photo %q not found", *sub.PhotoPath)
	}

	var entry *models.TimeEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewTimeEntryRepository(tx)
		var err error
		if sub.EndTime != nil {
			entry, err = s.closeOpenEntry(ctx, repo, sub.UserID, *sub.EndTime)
		} else {
			entry, err = s.openEntry(ctx, repo, sub)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TimeEntryService) SubmitStart(ctx context.Context, userID string, start time.Time, sourceText string, photoPath *string) (*models.TimeEntry, error) {
	return s.Submit(ctx, Submission{
		UserID:     userID,
		StartTime:  &start,
		SourceText: sourceText,
		PhotoPath:  photoPath,
	})
}

func (s *TimeEntryService) SubmitEnd(ctx context.Context, userID string, end time.Time, sourceText string) (*models.TimeEntry, error) {
	return s.Submit(ctx, Submission{
		UserID:     userID,
		EndTime:    &end,
		SourceText: sourceText,
	})
}

// SubmitManual combines the request's date and clock values in loc.
func (s *TimeEntryService) SubmitManual(ctx context.Context, userID string, req *models.ManualEntryRequest, loc *time.Location) (*models.TimeEntry, error) {
	day, err := time.ParseInLocation(models.DateLayout, req.Date, loc)
	if err != nil {
		return nil, invalidf("date must be formatted as YYYY-MM-DD")
	}

	sub := Submission{UserID: userID, SourceText: models.ManualSourceText}
	if req.StartTime != "" {
		t, err := models.ParseClock(day, req.StartTime)
		if err != nil {
			return nil, invalidf("start time: %v", err)
		}
		sub.StartTime = &t
	}
	if req.EndTime != "" {
		t, err := models.ParseClock(day, req.EndTime)
		if err != nil {
			return nil, invalidf("end time: %v", err)
		}
		sub.EndTime = &t
	}
	return s.Submit(ctx, sub)
}

// Confirm records a photo-derived time the user has reviewed. The photo must
// exist in every case but is only attached to a start.
func (s *TimeEntryService) Confirm(ctx context.Context, userID string, req *models.ConfirmEntryRequest) (*models.TimeEntry, error) {
	if req.PhotoPath != "" && (s.photos == nil || !s.photos.Exists(req.PhotoPath)) {
		return nil, invalidf("photo %q not found", req.PhotoPath)
	}

	sub := Submission{
		UserID:     userID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SourceText: req.ExtractedText,
	}
	if req.PhotoPath != "" && req.StartTime != nil && req.EndTime == nil {
		path := req.PhotoPath
		sub.PhotoPath = &path
	}
	return s.Submit(ctx, sub)
}

func (s *TimeEntryService) openEntry(ctx context.Context, repo *repository.TimeEntryRepository, sub Submission) (*models.TimeEntry, error) {
	date := sub.StartTime.Format(models.DateLayout)

	_, err := repo.FindOpenByDate(ctx, sub.UserID, date)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateOpenEntry, date)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	entry := &models.TimeEntry{
		UserID:      sub.UserID,
		Date:        date,
		StartTime:   *sub.StartTime,
		SourceText:  sub.SourceText,
		IsConfirmed: true,
		PhotoPath:   sub.PhotoPath,
	}
	if err := repo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOpenEntry, date)
		}
		return nil, err
	}

	s.logger.Debug("Opened time entry",
		zap.String("user_id", sub.UserID),
		zap.String("date", date),
		zap.Int64("id", entry.ID))
	return entry, nil
}

func (s *TimeEntryService) closeOpenEntry(ctx context.Context, repo *repository.TimeEntryRepository, userID string, end time.Time) (*models.TimeEntry, error) {
	date := end.Format(models.DateLayout)

	entry, err := repo.FindOpenByDate(ctx, userID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.noOpenEntry(ctx, repo, userID, date)
	}
	if err != nil {
		return nil, err
	}

	// An end at or before the start closes the entry without hours.
	var hours *float64
	if end.After(entry.StartTime) {
		h := end.Sub(entry.StartTime).Hours()
		hours = &h
	}

	if err := repo.Close(ctx, entry.ID, end, hours); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.noOpenEntry(ctx, repo, userID, date)
		}
		return nil, err
	}

	s.logger.Debug("Closed time entry",
		zap.String("user_id", userID),
		zap.String("date", date),
		zap.Int64("id", entry.ID))
	return repo.GetByID(ctx, userID, entry.ID)
}

func (s *TimeEntryService) noOpenEntry(ctx context.Context, repo *repository.TimeEntryRepository, userID, date string) error {
	open, err := repo.ListOpen(ctx, userID)
	if err != nil {
		return err
	}
	dates := make([]string, 0, len(open))
	for _, e := range open {
		dates = append(dates, e.Date)
	}
	return &NoOpenEntryError{Date: date, OpenDates: dates}
}

// ListOpenEntries returns the user's open entries, newest date first.
func (s *TimeEntryService) ListOpenEntries(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	return repository.NewTimeEntryRepository(s.db).ListOpen(ctx, userID)
}

func (s *TimeEntryService) GetTimeEntry(ctx context.Context, userID string, id int64) (*models.TimeEntry, error) {
	entry, err := repository.NewTimeEntryRepository(s.db).GetByID(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}
	return entry, err
}

func (s *TimeEntryService) ListTimeEntriesByMonth(ctx context.Context, userID string, year, month int) ([]*models.TimeEntry, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return repository.NewTimeEntryRepository(s.db).ListByDateRange(ctx, userID, from, to)
}

func (s *TimeEntryService) ListTimeEntriesByDay(ctx context.Context, userID, date string) ([]*models.TimeEntry, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, invalidf("date must be formatted as YYYY-MM-DD")
	}
	return repository.NewTimeEntryRepository(s.db).ListByDate(ctx, userID, date)
}

// MonthlySummary groups every entry of the calendar month by date.
func (s *TimeEntryService) MonthlySummary(ctx context.Context, userID string, year, month int) (*models.MonthlySummary, error) {
	entries, err := s.ListTimeEntriesByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{
		UserID:       userID,
		Month:        time.Month(month).String(),
		Year:         year,
		TotalEntries: len(entries),
	}

	byDate := make(map[string]*models.DailySummary)
	var total float64
	for _, e := range entries {
		day, ok := byDate[e.Date]
		if !ok {
			day = &models.DailySummary{Date: e.Date}
			byDate[e.Date] = day
		}
		day.EntriesCount++
		if e.IsConfirmed {
			summary.ConfirmedEntries++
		}
		if e.TotalHours != nil {
			day.TotalHours += *e.TotalHours
			total += *e.TotalHours
		}
	}

	breakdown := make([]models.DailySummary, 0, len(byDate))
	for _, day := range byDate {
		day.TotalHours = roundTo(day.TotalHours, 2)
		breakdown = append(breakdown, *day)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Date < breakdown[j].Date
	})

	summary.TotalHours = roundTo(total, 2)
	summary.TotalDays = len(breakdown)
	summary.PendingEntries = summary.TotalEntries - summary.ConfirmedEntries
	summary.DailyBreakdown = breakdown
	return summary, nil
}

// AllUsersSummary reports the month's hours of every user with entries in
// it, most hours first.
func (s *TimeEntryService) AllUsersSummary(ctx context.Context, year, month int) (*models.AllUsersSummary, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	users, err := repository.NewTimeEntryRepository(s.db).SumHoursByUser(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for i := range users {
		users[i].TotalHours = roundTo(users[i].TotalHours, 2)
		total += users[i].TotalHours
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].TotalHours > users[j].TotalHours
	})

	return &models.AllUsersSummary{
		Year:               year,
		Month:              month,
		TotalUsers:         len(users),
		TotalHoursAllUsers: roundTo(total, 2),
		Users:              users,
	}, nil
}

// UpdateTimeEntry edits an entry without running the open/close rules.
// Hours follow the edited times, so total hours cannot be set on an entry
// that has no end time.
func (s *TimeEntryService) UpdateTimeEntry(ctx context.Context, userID string, id int64, req *models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	if req.TotalHours != nil && *req.TotalHours < 0 {
		return nil, invalidf("total hours cannot be negative")
	}

	var entry *models.TimeEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewTimeEntryRepository(tx)
		current, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if req.TotalHours != nil && req.EndTime == nil && current.IsOpen() {
			return invalidf("total hours require an end time")
		}
		entry, err = repo.Update(ctx, userID, id, req)
		return err
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return nil, fmt.Errorf("%w: time entry %d", ErrDuplicateOpenEntry, id)
	case err != nil:
		return nil, err
	}
	return entry, nil
}

// DeleteTimeEntry removes the entry and then its photo. A photo that cannot
// be removed is logged and otherwise ignored.
func (s *TimeEntryService) DeleteTimeEntry(ctx context.Context, userID string, id int64) error {
	var photo *string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewTimeEntryRepository(tx)
		entry, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		photo = entry.PhotoPath
		return repo.Delete(ctx, userID, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if photo != nil && *photo != "" && s.photos != nil {
		if err := s.photos.Remove(*photo); err != nil {
			s.logger.Warn("Failed to remove photo of deleted time entry",
				zap.Int64("id", id),
				zap.String("photo_path", *photo),
				zap.Error(err))
		}
	}
	return nil
}

func monthRange(year, month int) (string, string, error) {
	if month < 1 || month > 12 {
		return "", "", invalidf("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format(models.DateLayout), start.AddDate(0, 1, 0).Format(models.DateLayout), nil
}
