package handler

import (
	"encoding/json"
	"net/http"

	"Mansoor88-6/time-tracking-backend/internal/models"
	"Mansoor88-6/time-tracking-backend/internal/service"

	"go.uber.org/zap"
)

type MonthlyTargetHandler struct {
	service *service.MonthlyTargetService
	logger  *zap.Logger
}

func NewMonthlyTargetHandler(service *service.MonthlyTargetService, logger *zap.Logger) *MonthlyTargetHandler {
	return &MonthlyTargetHandler{
		service: service,
		logger:  logger,
	}
}

func (h *MonthlyTargetHandler) CreateTarget(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateMonthlyTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target, err := h.service.CreateTarget(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to create monthly target", err)
		return
	}
	writeJSON(w, http.StatusCreated, target)
}

func (h *MonthlyTargetHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	targets, err := h.service.ListTargets(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list monthly targets", err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (h *MonthlyTargetHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.service.GetProgress(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get target progress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *MonthlyTargetHandler) GetCurrentProgress(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	progress, err := h.service.GetCurrentProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get current progress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *MonthlyTargetHandler) UpdateTarget(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateMonthlyTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target, err := h.service.UpdateTarget(r.Context(), userID, id, &req)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to update monthly target", err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

func (h *MonthlyTargetHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteTarget(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, "Failed to delete monthly target", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
