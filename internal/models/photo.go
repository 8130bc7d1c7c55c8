package models

import (
	"fmt"
	"time"
)

// OCRResult is the payload returned by the text-extraction service.
// Clock values are "15:04" or "15:04:05"; the date is "2006-01-02".
type OCRResult struct {
	ExtractedText      string  `json:"extracted_text"`
	SuggestedStartTime *string `json:"suggested_start_time,omitempty"`
	SuggestedEndTime   *string `json:"suggested_end_time,omitempty"`
	SuggestedDate      *string `json:"suggested_date,omitempty"`
}

// PhotoUploadResponse is returned after a photo was stored and read.
// The suggestions are hints only; the client decides what to confirm.
type PhotoUploadResponse struct {
	PhotoPath          string     `json:"photo_path"`
	ExtractedText      string     `json:"extracted_text"`
	SuggestedStartTime *time.Time `json:"suggested_start_time,omitempty"`
	SuggestedEndTime   *time.Time `json:"suggested_end_time,omitempty"`
	SuggestedDate      *string    `json:"suggested_date,omitempty"`
}

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock parses an HH:MM or HH:MM:SS value and places it on day.
func ParseClock(day time.Time, clock string) (time.Time, error) {
	for _, layout := range clockLayouts {
		c, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, day.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
}

// Suggestion turns OCR clock hints into timestamps. They are placed on the
// suggested date when one was read, otherwise on today. Unparseable hints
// are dropped.
func (r OCRResult) Suggestion(photoPath string, today time.Time) PhotoUploadResponse {
	resp := PhotoUploadResponse{
		PhotoPath:     photoPath,
		ExtractedText: r.ExtractedText,
	}

	day := today
	if r.SuggestedDate != nil {
		if d, err := time.ParseInLocation(DateLayout, *r.SuggestedDate, today.Location()); err == nil {
			day = d
			date := d.Format(DateLayout)
			resp.SuggestedDate = &date
		}
	}

	if r.SuggestedStartTime != nil {
		if t, err := ParseClock(day, *r.SuggestedStartTime); err == nil {
			resp.SuggestedStartTime = &t
		}
	}
	if r.SuggestedEndTime != nil {
		if t, err := ParseClock(day, *r.SuggestedEndTime); err == nil {
			resp.SuggestedEndTime = &t
		}
	}
	return resp
}
