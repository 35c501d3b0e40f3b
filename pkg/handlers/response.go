package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps engine errors onto HTTP status codes and writes the
// response. Unknown errors become 500 with a generic message so internals
// never leak to clients.
func WriteServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var (
		status  int
		code    string
		message string
	)

	switch {
	case errors.Is(err, apperrors.ErrInvalidActor):
		status, code, message = http.StatusUnauthorized, "invalid_actor", "Session is not valid"
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Resource not found"
	case errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, "validation_failed", err.Error()
	case errors.Is(err, apperrors.ErrInsufficientCandidates):
		status, code, message = http.StatusConflict, "insufficient_candidates", "Not enough eligible content to build a pair"
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		status, code, message = http.StatusServiceUnavailable, "catalog_unavailable", "Content catalog is unavailable"
	default:
		logger.Error("unhandled service error", zap.Error(err))
		status, code, message = http.StatusInternalServerError, "internal_error", "Internal server error"
	}

	if writeErr := ErrorResponse(w, status, code, message); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
