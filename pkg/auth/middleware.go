package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// SessionHeader carries the actor's session ID on every authenticated
// request.
const SessionHeader = "X-Session-ID"

// Middleware validates the session header and injects the actor ID into the
// request context.
type Middleware struct {
	sessions repositories.SessionRepository
	logger   *zap.Logger
}

// NewMiddleware creates session-resolution middleware.
func NewMiddleware(sessions repositories.SessionRepository, logger *zap.Logger) *Middleware {
	return &Middleware{sessions: sessions, logger: logger}
}

// RequireSession rejects requests without a valid, known session ID with
// 401. The session row must exist; a well-formed UUID alone is not enough.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(SessionHeader)
		if raw == "" {
			m.unauthorized(w, "missing_session", "Session ID header is required")
			return
		}

		actorID, err := uuid.Parse(raw)
		if err != nil {
			m.unauthorized(w, "invalid_session", "Session ID must be a valid UUID")
			return
		}

		if _, err := m.sessions.Get(r.Context(), actorID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidActor) {
				m.unauthorized(w, "unknown_session", "Session does not exist")
				return
			}
			m.logger.Error("session lookup failed", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), actorID)))
	})
}

func (m *Middleware) unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	}); err != nil {
		m.logger.Error("Failed to write error response", zap.Error(err))
	}
}
