package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/services"
)

// SessionHandler handles session creation and inspection endpoints.
type SessionHandler struct {
	sessions services.SessionService
	logger   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions services.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers the session handler's routes on the given mux.
// The create endpoint is the only unauthenticated API route; requireSession
// wraps the rest.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/sessions", h.Create)
	mux.Handle("GET /api/sessions/me", requireSession(http.HandlerFunc(h.Me)))
}

// Create handles POST /api/sessions.
// Issues a fresh anonymous session whose ID doubles as the actor credential.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Create(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, session); err != nil {
		h.logger.Error("Failed to encode session response", zap.Error(err))
	}
}

// Me handles GET /api/sessions/me.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	session, err := h.sessions.Get(r.Context(), actorID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, session); err != nil {
		h.logger.Error("Failed to encode session response", zap.Error(err))
	}
}
