package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/models"
)

const monthlyTargetColumns = `id, user_id, year, month, start_day, end_day, target_hours, created_at, updated_at`

type MonthlyTargetRepository struct {
	db database.DBTX
}

func NewMonthlyTargetRepository(db database.DBTX) *MonthlyTargetRepository {
	return &MonthlyTargetRepository{db: db}
}

// Create inserts target. A second target for the same user and month fails
// with ErrDuplicate.
func (r *MonthlyTargetRepository) Create(ctx context.Context, target *models.MonthlyTarget) error {
	now := nowUTC()
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO monthly_targets (user_id, year, month, start_day, end_day, target_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		target.UserID,
		target.Year,
		target.Month,
		target.StartDay,
		target.EndDay,
		target.TargetHours,
		formatTime(now),
		formatTime(now),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("monthly target %d/%d: %w", target.Month, target.Year, ErrDuplicate)
		}
		return fmt.Errorf("failed to create monthly target: %w", err)
	}

	target.ID = id
	target.CreatedAt = now
	target.UpdatedAt = now
	return nil
}

func (r *MonthlyTargetRepository) GetByID(ctx context.Context, userID string, id int64) (*models.MonthlyTarget, error) {
	query := `SELECT ` + monthlyTargetColumns + ` FROM monthly_targets WHERE id = ? AND user_id = ?`
	return r.scanTarget(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *MonthlyTargetRepository) GetByPeriod(ctx context.Context, userID string, year, month int) (*models.MonthlyTarget, error) {
	query := `SELECT ` + monthlyTargetColumns + ` FROM monthly_targets WHERE user_id = ? AND year = ? AND month = ?`
	return r.scanTarget(r.db.QueryRowContext(ctx, query, userID, year, month))
}

// ListByUser returns the targets of userID, most recent month first.
func (r *MonthlyTargetRepository) ListByUser(ctx context.Context, userID string) ([]*models.MonthlyTarget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+monthlyTargetColumns+` FROM monthly_targets
		WHERE user_id = ?
		ORDER BY year DESC, month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly targets: %w", err)
	}
	defer rows.Close()

	targets := []*models.MonthlyTarget{}
	for rows.Next() {
		target, err := scanMonthlyTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly target: %w", err)
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return targets, nil
}

// Update writes the mutable fields of target (days and hours).
func (r *MonthlyTargetRepository) Update(ctx context.Context, target *models.MonthlyTarget) error {
	now := nowUTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE monthly_targets
		SET start_day = ?, end_day = ?, target_hours = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, target.StartDay, target.EndDay, target.TargetHours, formatTime(now), target.ID, target.UserID)
	if err != nil {
		return fmt.Errorf("failed to update monthly target: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("monthly target %d: %w", target.ID, ErrNotFound)
	}
	target.UpdatedAt = now
	return nil
}

func (r *MonthlyTargetRepository) Delete(ctx context.Context, userID string, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM monthly_targets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete monthly target: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("monthly target %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MonthlyTargetRepository) scanTarget(row *sql.Row) (*models.MonthlyTarget, error) {
	target, err := scanMonthlyTarget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("monthly target: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly target: %w", err)
	}
	return target, nil
}

func scanMonthlyTarget(row rowScanner) (*models.MonthlyTarget, error) {
	var (
		target             models.MonthlyTarget
		createdStr, updStr string
	)
	err := row.Scan(
		&target.ID,
		&target.UserID,
		&target.Year,
		&target.Month,
		&target.StartDay,
		&target.EndDay,
		&target.TargetHours,
		&createdStr,
		&updStr,
	)
	if err != nil {
		return nil, err
	}

	if target.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if target.UpdatedAt, err = parseTime(updStr); err != nil {
		return nil, err
	}
	return &target, nil
}
