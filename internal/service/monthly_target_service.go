package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/repository"

	"go.uber.org/zap"
)

type MonthlyTargetService struct {
	db     database.DBTX
	uow    database.UnitOfWork
	logger *zap.Logger
	now    func() time.Time
}

func NewMonthlyTargetService(db database.DBTX, uow database.UnitOfWork, logger *zap.Logger) *MonthlyTargetService {
	return &MonthlyTargetService{
		db:     db,
		uow:    uow,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to pick the current month.
func (s *MonthlyTargetService) WithClock(now func() time.Time) *MonthlyTargetService {
	s.now = now
	return s
}

// CreateTarget stores a target, defaulting the window to the whole month.
func (s *MonthlyTargetService) CreateTarget(ctx context.Context, userID string, req *models.CreateMonthlyTargetRequest) (*models.MonthlyTarget, error) {
	target := &models.MonthlyTarget{
		UserID:      userID,
		Year:        req.Year,
		Month:       req.Month,
		StartDay:    1,
		TargetHours: req.TargetHours,
	}
	if req.Month >= 1 && req.Month <= 12 {
		target.EndDay = DaysInMonth(req.Year, req.Month)
	}
	if req.StartDay != nil {
		target.StartDay = *req.StartDay
	}
	if req.EndDay != nil {
		target.EndDay = *req.EndDay
	}
	if err := ValidateTargetData(target); err != nil {
		return nil, err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewMonthlyTargetRepository(tx)
		_, err := repo.GetByPeriod(ctx, userID, target.Year, target.Month)
		if err == nil {
			return fmt.Errorf("monthly target for %d/%d %w", target.Month, target.Year, ErrConflict)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return repo.Create(ctx, target)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("monthly target for %d/%d %w", target.Month, target.Year, ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Monthly target created",
		zap.String("user_id", userID),
		zap.Int("year", target.Year),
		zap.Int("month", target.Month))
	return target, nil
}

// UpdateTarget applies the supplied fields, validating each against the
// target's own year and month.
func (s *MonthlyTargetService) UpdateTarget(ctx context.Context, userID string, id int64, req *models.UpdateMonthlyTargetRequest) (*models.MonthlyTarget, error) {
	var target *models.MonthlyTarget
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewMonthlyTargetRepository(tx)
		var err error
		target, err = repo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		lastDay := DaysInMonth(target.Year, target.Month)
		if req.StartDay != nil {
			if *req.StartDay < 1 || *req.StartDay > lastDay {
				return invalidf("start day must be between 1 and %d", lastDay)
			}
			target.StartDay = *req.StartDay
		}
		if req.EndDay != nil {
			if *req.EndDay < 1 || *req.EndDay > lastDay {
				return invalidf("end day must be between 1 and %d", lastDay)
			}
			target.EndDay = *req.EndDay
		}
		if req.TargetHours != nil {
			if *req.TargetHours <= 0 {
				return invalidf("target hours must be greater than 0")
			}
			target.TargetHours = *req.TargetHours
		}
		return repo.Update(ctx, target)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("monthly target %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *MonthlyTargetService) DeleteTarget(ctx context.Context, userID string, id int64) error {
	err := repository.NewMonthlyTargetRepository(s.db).Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("monthly target %d: %w", id, ErrNotFound)
	}
	return err
}

// ListTargets returns the user's targets, most recent month first.
func (s *MonthlyTargetService) ListTargets(ctx context.Context, userID string) ([]*models.MonthlyTarget, error) {
	return repository.NewMonthlyTargetRepository(s.db).ListByUser(ctx, userID)
}

// GetProgress reports how far the user is through the target of year/month.
func (s *MonthlyTargetService) GetProgress(ctx context.Context, userID string, year, month int) (*models.TargetProgress, error) {
	target, err := repository.NewMonthlyTargetRepository(s.db).GetByPeriod(ctx, userID, year, month)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("monthly target for %d/%d: %w", month, year, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	start, end, err := ResolveWindow(target)
	if err != nil {
		return nil, err
	}
	entries, err := repository.NewTimeEntryRepository(s.db).ListConfirmedByDateRange(ctx, userID,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}
	return ComputeProgress(target, entries)
}

// GetCurrentProgress is GetProgress for the month the clock is in.
func (s *MonthlyTargetService) GetCurrentProgress(ctx context.Context, userID string) (*models.TargetProgress, error) {
	now := s.now()
	return s.GetProgress(ctx, userID, now.Year(), int(now.Month()))
}
