package models

import "time"

// DateLayout is the calendar-date format used for entry dates and query params.
const DateLayout = "2006-01-02"

// ManualSourceText is stored as source text for entries typed in by hand.
const ManualSourceText = "Manual entry"

type TimeEntry struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Date        string     `json:"date"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	TotalHours  *float64   `json:"total_hours,omitempty"`
	SourceText  string     `json:"source_text"`
	IsConfirmed bool       `json:"is_confirmed"`
	PhotoPath   *string    `json:"photo_path,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOpen reports whether the entry is still waiting for its end time.
func (e *TimeEntry) IsOpen() bool {
	return e.EndTime == nil
}

// ManualEntryRequest carries a hand-typed start or end time: a calendar
// date plus an HH:MM clock value.
type ManualEntryRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// ConfirmEntryRequest confirms times suggested from an uploaded photo.
type ConfirmEntryRequest struct {
	PhotoPath     string     `json:"photo_path"`
	ExtractedText string     `json:"extracted_text"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}

type UpdateTimeEntryRequest struct {
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	TotalHours  *float64   `json:"total_hours,omitempty"`
	IsConfirmed *bool      `json:"is_confirmed,omitempty"`
	SourceText  *string    `json:"source_text,omitempty"`
}

type DailySummary struct {
	Date         string  `json:"date"`
	TotalHours   float64 `json:"total_hours"`
	EntriesCount int     `json:"entries_count"`
}

type MonthlySummary struct {
	UserID           string         `json:"user_id"`
	Month            string         `json:"month"`
	Year             int            `json:"year"`
	TotalHours       float64        `json:"total_hours"`
	TotalDays        int            `json:"total_days"`
	TotalEntries     int            `json:"total_entries"`
	ConfirmedEntries int            `json:"confirmed_entries"`
	PendingEntries   int            `json:"pending_entries"`
	DailyBreakdown   []DailySummary `json:"daily_breakdown"`
}

// UserHours is one user's line in the all-users report.
type UserHours struct {
	UserID           string  `json:"user_id"`
	TotalHours       float64 `json:"total_hours"`
	TotalEntries     int     `json:"total_entries"`
	ConfirmedEntries int     `json:"confirmed_entries"`
	PendingEntries   int     `json:"pending_entries"`
}

type AllUsersSummary struct {
	Year               int         `json:"year"`
	Month              int         `json:"month"`
	TotalUsers         int         `json:"total_users"`
	TotalHoursAllUsers float64     `json:"total_hours_all_users"`
	Users              []UserHours `json:"users_summary"`
}
