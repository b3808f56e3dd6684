package http

import (
	"context"
	"net/http"
	"time"

	"registration-service/internal/logger"
	"registration-service/internal/repository"
	"registration-service/internal/security"
	"registration-service/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter builds the API routes. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(svc service.RegistrationService, tm security.TokenManager, store repository.Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger)

	router.HandleFunc("/healthz", healthHandler(store)).Methods(http.MethodGet).Name("Health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	h := NewRegistrationHandler(svc)
	api.HandleFunc("/registration-request", h.Submit).Methods(http.MethodPost).Name("SubmitRegistrationRequest")
	api.HandleFunc("/registration-request", h.List).Methods(http.MethodGet).Name("ListRegistrationRequests")
	api.HandleFunc("/registration-request/{id}", h.Get).Methods(http.MethodGet).Name("GetRegistrationRequest")
	api.HandleFunc("/registration-request/{id}", h.Review).Methods(http.MethodPut).Name("ReviewRegistrationRequest")

	return router
}

func healthHandler(store repository.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Warn("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
