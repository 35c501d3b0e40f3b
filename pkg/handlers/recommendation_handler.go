package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/services"
)

// RecommendationHandler handles recommendation generation and listing.
type RecommendationHandler struct {
	recs   services.RecommendationService
	logger *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recs services.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recs: recs, logger: logger}
}

// RegisterRoutes registers the recommendation routes, all session-protected.
func (h *RecommendationHandler) RegisterRoutes(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.Handle("POST /api/recommendations/generate", requireSession(http.HandlerFunc(h.Generate)))
	mux.Handle("GET /api/recommendations", requireSession(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/recommendations/refresh-check", requireSession(http.HandlerFunc(h.RefreshCheck)))
}

type recommendationListResponse struct {
	Recommendations []*models.ScoredRecommendation `json:"recommendations"`
	TotalCount      int                            `json:"total_count"`
	HasMore         bool                           `json:"has_more"`
}

// Generate handles POST /api/recommendations/generate.
// Synchronously rebuilds the actor's recommendation set and returns it.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	recs, err := h.recs.Generate(r.Context(), actorID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	response := recommendationListResponse{
		Recommendations: recs,
		TotalCount:      len(recs),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode recommendations response", zap.Error(err))
	}
}

// List handles GET /api/recommendations.
// Serves the stored set, paged, without regenerating.
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	offset, limit, ok := ParsePagination(w, r, h.logger)
	if !ok {
		return
	}

	recs, total, err := h.recs.Get(r.Context(), actorID, offset, limit)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	response := recommendationListResponse{
		Recommendations: recs,
		TotalCount:      total,
		HasMore:         offset+len(recs) < total,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode recommendations response", zap.Error(err))
	}
}

// RefreshCheck handles GET /api/recommendations/refresh-check.
// Reports whether the stored set is stale; ?strict=true applies the wider
// thresholds.
func (h *RecommendationHandler) RefreshCheck(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	strict := r.URL.Query().Get("strict") == "true"

	stale, err := h.recs.NeedsRefresh(r.Context(), actorID, strict)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"needs_refresh": stale}); err != nil {
		h.logger.Error("Failed to encode refresh check response", zap.Error(err))
	}
}
