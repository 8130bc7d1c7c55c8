package handler

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/service"

	"go.uber.org/zap"
)

// AdminHandler serves the cross-user hour reports. Only the configured admin
// user ids may call it.
type AdminHandler struct {
	service *service.TimeEntryService
	admins  []string
	now     func() time.Time
	logger  *zap.Logger
}

func NewAdminHandler(service *service.TimeEntryService, admins []string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		admins:  admins,
		now:     time.Now,
		logger:  logger,
	}
}

// GetUserTimeSummary reports the month of ?user_id=. Year and month default
// to the current month.
func (h *AdminHandler) GetUserTimeSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "Missing user_id parameter", http.StatusBadRequest)
		return
	}
	year, month, ok := h.optionalPeriod(w, r)
	if !ok {
		return
	}

	summary, err := h.service.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to build user time summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) GetAllUsersSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	year, month, ok := h.optionalPeriod(w, r)
	if !ok {
		return
	}

	summary, err := h.service.AllUsersSummary(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to build all users summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := requireUser(w, r)
	if !ok {
		return false
	}
	if !slices.Contains(h.admins, userID) {
		h.logger.Warn("Rejected admin request", zap.String("user_id", userID), zap.String("path", r.URL.Path))
		http.Error(w, "Admin access required", http.StatusForbidden)
		return false
	}
	return true
}

func (h *AdminHandler) optionalPeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid year parameter", http.StatusBadRequest)
			return 0, 0, false
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "Invalid month parameter", http.StatusBadRequest)
			return 0, 0, false
		}
		month = m
	}
	return year, month, true
}
