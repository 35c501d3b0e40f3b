package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/services"
)

// WatchlistHandler handles watchlist listing and removal.
type WatchlistHandler struct {
	watchlist services.WatchlistService
	logger    *zap.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlist services.WatchlistService, logger *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

// RegisterRoutes registers the watchlist routes, all session-protected.
func (h *WatchlistHandler) RegisterRoutes(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.Handle("GET /api/watchlist", requireSession(http.HandlerFunc(h.List)))
	mux.Handle("DELETE /api/watchlist/{cid}", requireSession(http.HandlerFunc(h.Remove)))
}

type watchlistListResponse struct {
	Entries    []*models.WatchlistEntry `json:"entries"`
	TotalCount int                      `json:"total_count"`
	HasMore    bool                     `json:"has_more"`
}

// List handles GET /api/watchlist.
// Returns the merged user and algorithmic lists, optionally filtered by
// ?type=.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	contentType, ok := ParseContentTypeFilter(w, r, h.logger)
	if !ok {
		return
	}
	offset, limit, ok := ParsePagination(w, r, h.logger)
	if !ok {
		return
	}

	entries, total, err := h.watchlist.List(r.Context(), actorID, contentType, offset, limit)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	response := watchlistListResponse{
		Entries:    entries,
		TotalCount: total,
		HasMore:    offset+len(entries) < total,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode watchlist response", zap.Error(err))
	}
}

// Remove handles DELETE /api/watchlist/{cid}.
// Only user-curated entries can be removed directly; algorithmic entries
// turn over with each refresh.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	contentID, ok := ParseContentID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.watchlist.Remove(r.Context(), actorID, contentID); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"removed": true}); err != nil {
		h.logger.Error("Failed to encode watchlist response", zap.Error(err))
	}
}
