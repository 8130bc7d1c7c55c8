package models

import "time"

type MonthlyTarget struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	StartDay    int       `json:"start_day"`
	EndDay      int       `json:"end_day"`
	TargetHours float64   `json:"target_hours"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMonthlyTargetRequest leaves StartDay and EndDay nil to mean the
// first and last day of the month.
type CreateMonthlyTargetRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	StartDay    *int    `json:"start_day,omitempty"`
	EndDay      *int    `json:"end_day,omitempty"`
	TargetHours float64 `json:"target_hours"`
}

type UpdateMonthlyTargetRequest struct {
	StartDay    *int     `json:"start_day,omitempty"`
	EndDay      *int     `json:"end_day,omitempty"`
	TargetHours *float64 `json:"target_hours,omitempty"`
}

// TargetProgress reports hours counted in the window [WindowStart, WindowEnd).
type TargetProgress struct {
	Target             MonthlyTarget `json:"target"`
	WindowStart        string        `json:"window_start"`
	WindowEnd          string        `json:"window_end"`
	CurrentHours       float64       `json:"current_hours"`
	RemainingHours     float64       `json:"remaining_hours"`
	ProgressPercentage float64       `json:"progress_percentage"`
}
