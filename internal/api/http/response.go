package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"registration-service/internal/domain"
	"registration-service/internal/logger"
)

const (
	TypeValidationError         = "ValidationError"
	TypeAlreadyExistingUsername = "AlreadyExistingUsername"
	TypeUnknownRequest          = "UnknownRequest"
	TypeAlreadyProcessed        = "AlreadyProcessed"
	TypeForbidden               = "ForbiddenError"
	TypeUnknown                 = "UnknownError"
)

type errorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status   string `json:"status"`
	Password string `json:"password,omitempty"`
}

// mapError translates a service error into an HTTP status and error type.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, TypeValidationError
	case errors.Is(err, domain.ErrAlreadyExistingUsername):
		return http.StatusBadRequest, TypeAlreadyExistingUsername
	case errors.Is(err, domain.ErrUnknownRequest):
		return http.StatusNotFound, TypeUnknownRequest
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return http.StatusConflict, TypeAlreadyProcessed
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, TypeForbidden
	default:
		return http.StatusInternalServerError, TypeUnknown
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, typ := mapError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, code, errorResponse{Type: typ, Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}
