package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/models"
)

const timeEntryColumns = `id, user_id, date, start_time, end_time, total_hours,
		source_text, is_confirmed, photo_path, created_at, updated_at`

type TimeEntryRepository struct {
	db database.DBTX
}

func NewTimeEntryRepository(db database.DBTX) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// Create inserts entry and fills in its ID and timestamps. A second open
// entry for the same user and date fails with ErrDuplicate.
func (r *TimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	now := nowUTC()
	query := `
		INSERT INTO time_entries (user_id, date, start_time, end_time, total_hours,
			source_text, is_confirmed, photo_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		entry.UserID,
		entry.Date,
		formatTime(entry.StartTime),
		nullableTime(entry.EndTime),
		entry.TotalHours,
		entry.SourceText,
		boolToInt(entry.IsConfirmed),
		entry.PhotoPath,
		formatTime(now),
		formatTime(now),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("open time entry for %s: %w", entry.Date, ErrDuplicate)
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

// GetByID returns the entry only when it belongs to userID.
func (r *TimeEntryRepository) GetByID(ctx context.Context, userID string, id int64) (*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ? AND user_id = ?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
}

// FindOpenByDate returns the open entry of userID for date.
func (r *TimeEntryRepository) FindOpenByDate(ctx context.Context, userID, date string) (*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = ? AND date = ? AND end_time IS NULL
		LIMIT 1`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, userID, date))
}

// ListOpen returns all open entries of userID, newest date first.
func (r *TimeEntryRepository) ListOpen(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = ? AND end_time IS NULL
		ORDER BY date DESC, start_time DESC`
	return r.queryEntries(ctx, query, userID)
}

// ListByDateRange returns entries with from <= date < to, newest first.
func (r *TimeEntryRepository) ListByDateRange(ctx context.Context, userID, from, to string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date DESC, start_time DESC`
	return r.queryEntries(ctx, query, userID, from, to)
}

// ListConfirmedByDateRange returns confirmed entries with from <= date < to.
func (r *TimeEntryRepository) ListConfirmedByDateRange(ctx context.Context, userID, from, to string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = ? AND date >= ? AND date < ? AND is_confirmed = 1
		ORDER BY date, start_time`
	return r.queryEntries(ctx, query, userID, from, to)
}

// ListByDate returns the entries of a single day in start order.
func (r *TimeEntryRepository) ListByDate(ctx context.Context, userID, date string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = ? AND date = ?
		ORDER BY start_time`
	return r.queryEntries(ctx, query, userID, date)
}

// SumHoursByUser aggregates the entries with from <= date < to per user.
// Users without entries in the range are not returned.
func (r *TimeEntryRepository) SumHoursByUser(ctx context.Context, from, to string) ([]models.UserHours, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, COUNT(*), SUM(is_confirmed), COALESCE(SUM(total_hours), 0.0)
		FROM time_entries
		WHERE date >= ? AND date < ?
		GROUP BY user_id
		ORDER BY user_id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours by user: %w", err)
	}
	defer rows.Close()

	totals := []models.UserHours{}
	for rows.Next() {
		var u models.UserHours
		if err := rows.Scan(&u.UserID, &u.TotalEntries, &u.ConfirmedEntries, &u.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan user hours: %w", err)
		}
		u.PendingEntries = u.TotalEntries - u.ConfirmedEntries
		totals = append(totals, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return totals, nil
}

// Close sets the end time of an open entry. It only matches while the entry
// is still open, so closing twice reports ErrNotFound.
func (r *TimeEntryRepository) Close(ctx context.Context, id int64, endTime time.Time, totalHours *float64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE time_entries
		SET end_time = ?, total_hours = ?, updated_at = ?
		WHERE id = ? AND end_time IS NULL
	`, formatTime(endTime), totalHours, formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("open time entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// Update applies the non-nil fields of update. total_hours always follows
// the resulting times: the duration when end is after start, NULL otherwise.
func (r *TimeEntryRepository) Update(ctx context.Context, userID string, id int64, update *models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	current, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	setParts := []string{"updated_at = ?"}
	args := []any{formatTime(nowUTC())}

	startTime := current.StartTime
	endTime := current.EndTime

	if update.StartTime != nil {
		setParts = append(setParts, "start_time = ?")
		args = append(args, formatTime(*update.StartTime))
		startTime = *update.StartTime
	}
	if update.EndTime != nil {
		setParts = append(setParts, "end_time = ?")
		args = append(args, formatTime(*update.EndTime))
		endTime = update.EndTime
	}
	if update.IsConfirmed != nil {
		setParts = append(setParts, "is_confirmed = ?")
		args = append(args, boolToInt(*update.IsConfirmed))
	}
	if update.SourceText != nil {
		setParts = append(setParts, "source_text = ?")
		args = append(args, *update.SourceText)
	}

	if len(setParts) == 1 && update.TotalHours == nil {
		return current, nil
	}

	var totalHours *float64
	if endTime != nil && endTime.After(startTime) {
		h := endTime.Sub(startTime).Hours()
		totalHours = &h
	}
	setParts = append(setParts, "total_hours = ?")
	args = append(args, totalHours)

	query := fmt.Sprintf(`
		UPDATE time_entries
		SET %s
		WHERE id = ? AND user_id = ?
	`, strings.Join(setParts, ", "))
	args = append(args, id, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("open time entry for %s: %w", current.Date, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}

	return r.GetByID(ctx, userID, id)
}

func (r *TimeEntryRepository) Delete(ctx context.Context, userID string, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TimeEntryRepository) scanEntry(row *sql.Row) (*models.TimeEntry, error) {
	entry, err := scanTimeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time entry: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	return entry, nil
}

func (r *TimeEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.TimeEntry{}
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entries, nil
}

func scanTimeEntry(row rowScanner) (*models.TimeEntry, error) {
	var (
		entry                        models.TimeEntry
		startStr, createdStr, updStr string
		endStr, photoPath            sql.NullString
		totalHours                   sql.NullFloat64
		isConfirmed                  int
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&startStr,
		&endStr,
		&totalHours,
		&entry.SourceText,
		&isConfirmed,
		&photoPath,
		&createdStr,
		&updStr,
	)
	if err != nil {
		return nil, err
	}

	if entry.StartTime, err = parseTime(startStr); err != nil {
		return nil, err
	}
	if entry.EndTime, err = parseNullableTime(endStr); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseTime(updStr); err != nil {
		return nil, err
	}
	entry.TotalHours = nullableFloat(totalHours)
	entry.PhotoPath = nullableString(photoPath)
	entry.IsConfirmed = isConfirmed != 0

	return &entry, nil
}
