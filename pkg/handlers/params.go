package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ParseContentID extracts and validates the content ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: cid
func ParseContentID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "cid", "invalid_content_id", "Invalid content ID format", logger)
}

// ParseContentTypeFilter reads the optional ?type= query parameter. Returns
// nil when absent, or false after writing an error response when the value
// is not a known content type.
func ParseContentTypeFilter(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*models.ContentType, bool) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return nil, true
	}
	if !models.IsValidContentType(raw) {
		writeParamError(w, "invalid_content_type", "Content type must be 'movie' or 'series'", logger)
		return nil, false
	}
	ct := models.ContentType(raw)
	return &ct, true
}

// ParsePagination reads ?offset= and ?limit= with defaults. Offset must be
// >= 0 and limit in [1, 100]; out-of-range values are rejected rather than
// clamped.
func ParsePagination(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (offset, limit int, ok bool) {
	offset = 0
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeParamError(w, "invalid_offset", "Offset must be a non-negative integer", logger)
			return 0, 0, false
		}
		offset = parsed
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageLimit {
			writeParamError(w, "invalid_limit", "Limit must be an integer between 1 and 100", logger)
			return 0, 0, false
		}
		limit = parsed
	}

	return offset, limit, true
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeParamError(w, errorCode, errorMessage, logger)
		return uuid.Nil, false
	}
	return id, true
}

func writeParamError(w http.ResponseWriter, code, message string, logger *zap.Logger) {
	if err := ErrorResponse(w, http.StatusBadRequest, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
