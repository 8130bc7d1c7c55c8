package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Mansoor88-6/time-tracking-backend/internal/service"

	"go.uber.org/zap"
)

// UserIDHeader carries the caller's identity, set by the authenticating proxy.
const UserIDHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

type noOpenEntryResponse struct {
	Error     string   `json:"error"`
	OpenDates []string `json:"open_dates"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto HTTP statuses. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	var noOpen *service.NoOpenEntryError
	switch {
	case errors.As(err, &noOpen):
		// Always send the list, even when empty.
		dates := noOpen.OpenDates
		if dates == nil {
			dates = []string{}
		}
		writeJSON(w, http.StatusBadRequest, noOpenEntryResponse{Error: err.Error(), OpenDates: dates})
	case errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, service.ErrDuplicateOpenEntry),
		errors.Is(err, service.ErrInvalidWindow):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrExtractionFailed):
		logger.Error(msg, zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Text extraction failed"})
	default:
		logger.Error(msg, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid id parameter", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parsePeriodParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "Invalid year parameter", http.StatusBadRequest)
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "Invalid month parameter", http.StatusBadRequest)
		return 0, 0, false
	}
	return year, month, true
}
