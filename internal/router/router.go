package router

import (
	"net/http"
	"slices"
	"time"

	"Mansoor88-6/time-tracking-backend/internal/handler"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

func New(timeEntryHandler *handler.TimeEntryHandler, targetHandler *handler.MonthlyTargetHandler, adminHandler *handler.AdminHandler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Time entry endpoints
	mux.HandleFunc("/api/v1/time-entries", timeEntryHandler.GetTimeEntries)
	mux.HandleFunc("/api/v1/time-entries/manual", timeEntryHandler.CreateManualEntry)
	mux.HandleFunc("/api/v1/time-entries/confirm", timeEntryHandler.ConfirmEntry)
	mux.HandleFunc("/api/v1/time-entries/upload", timeEntryHandler.UploadPhoto)
	mux.HandleFunc("/api/v1/time-entries/open", timeEntryHandler.GetOpenEntries)
	mux.HandleFunc("/api/v1/time-entries/daily", timeEntryHandler.GetDailyEntries)
	mux.HandleFunc("/api/v1/time-entries/summary", timeEntryHandler.GetMonthlySummary)
	mux.HandleFunc("/api/v1/time-entries/update", timeEntryHandler.UpdateTimeEntry)
	mux.HandleFunc("/api/v1/time-entries/delete", timeEntryHandler.DeleteTimeEntry)

	// Monthly target endpoints
	mux.HandleFunc("/api/v1/monthly-targets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			targetHandler.CreateTarget(w, r)
		case http.MethodGet:
			targetHandler.ListTargets(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/monthly-targets/progress", targetHandler.GetProgress)
	mux.HandleFunc("/api/v1/monthly-targets/current", targetHandler.GetCurrentProgress)
	mux.HandleFunc("/api/v1/monthly-targets/update", targetHandler.UpdateTarget)
	mux.HandleFunc("/api/v1/monthly-targets/delete", targetHandler.DeleteTarget)

	// Admin report endpoints
	mux.HandleFunc("/api/v1/admin/users/time-summary", adminHandler.GetUserTimeSummary)
	mux.HandleFunc("/api/v1/admin/all-users-summary", adminHandler.GetAllUsersSummary)

	return withLogging(withCORS(mux, allowedOrigins), logger)
}

// withCORS answers preflight requests and sets CORS headers for allowed
// origins. "*" allows any origin.
func withCORS(next http.Handler, allowedOrigins []string) http.Handler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(allowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+handler.UserIDHeader+", "+requestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Add("Vary", "Origin")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging tags every request with an id and logs it once served.
func withLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}
