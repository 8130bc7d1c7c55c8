package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/service"

	"go.uber.org/zap"
)

type TimeEntryHandler struct {
	service        *service.TimeEntryService
	photos         *service.PhotoService
	maxUploadBytes int64
	loc            *time.Location
	logger         *zap.Logger
}

func NewTimeEntryHandler(service *service.TimeEntryService, photos *service.PhotoService, maxUploadBytes int64, logger *zap.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{
		service:        service,
		photos:         photos,
		maxUploadBytes: maxUploadBytes,
		loc:            time.Local,
		logger:         logger,
	}
}

// CreateManualEntry records a hand-typed start or end time.
func (h *TimeEntryHandler) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.SubmitManual(r.Context(), userID, &req, h.loc)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to submit manual entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ConfirmEntry records a time the user accepted after a photo upload.
func (h *TimeEntryHandler) ConfirmEntry(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ConfirmEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Confirm(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to confirm entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// UploadPhoto stores a multipart "file" image and returns the suggested times.
func (h *TimeEntryHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := h.photos.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to process photo", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTimeEntries returns one entry for ?id= or a month of entries for
// ?year=&month=.
func (h *TimeEntryHandler) GetTimeEntries(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("id") != "" {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}
		entry, err := h.service.GetTimeEntry(r.Context(), userID, id)
		if err != nil {
			writeServiceError(w, h.logger, "Failed to get time entry", err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}

	year, month, ok := parsePeriodParams(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListTimeEntriesByMonth(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get time entries", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimeEntryHandler) GetOpenEntries(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListOpenEntries(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get open entries", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetDailyEntries lists the entries of ?date=, today when omitted.
func (h *TimeEntryHandler) GetDailyEntries(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().In(h.loc).Format(models.DateLayout)
	}

	entries, err := h.service.ListTimeEntriesByDay(r.Context(), userID, date)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get daily entries", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimeEntryHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	year, month, ok := parsePeriodParams(w, r)
	if !ok {
		return
	}

	summary, err := h.service.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to build monthly summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *TimeEntryHandler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.UpdateTimeEntry(r.Context(), userID, id, &req)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to update time entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTimeEntry(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, "Failed to delete time entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
