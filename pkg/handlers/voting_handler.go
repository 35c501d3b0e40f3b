package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/services"
)

// VotingHandler handles pair serving, vote submission, content interactions,
// and voting stats.
type VotingHandler struct {
	pairs        services.PairSelector
	interactions services.InteractionService
	logger       *zap.Logger
}

// NewVotingHandler creates a new VotingHandler.
func NewVotingHandler(pairs services.PairSelector, interactions services.InteractionService, logger *zap.Logger) *VotingHandler {
	return &VotingHandler{pairs: pairs, interactions: interactions, logger: logger}
}

// RegisterRoutes registers the voting routes, all session-protected.
func (h *VotingHandler) RegisterRoutes(mux *http.ServeMux, requireSession func(http.Handler) http.Handler) {
	mux.Handle("GET /api/pair", requireSession(http.HandlerFunc(h.GetPair)))
	mux.Handle("POST /api/pair/replacement", requireSession(http.HandlerFunc(h.GetReplacementPair)))
	mux.Handle("POST /api/votes", requireSession(http.HandlerFunc(h.SubmitVote)))
	mux.Handle("POST /api/interactions", requireSession(http.HandlerFunc(h.SubmitInteraction)))
	mux.Handle("POST /api/passes", requireSession(http.HandlerFunc(h.SubmitPass)))
	mux.Handle("GET /api/stats", requireSession(http.HandlerFunc(h.GetStats)))
}

// GetPair handles GET /api/pair.
// Serves a fresh type-matched pair for the actor to compare.
func (h *VotingHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	pair, err := h.pairs.GetPair(r.Context(), actorID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, pair); err != nil {
		h.logger.Error("Failed to encode pair response", zap.Error(err))
	}
}

type replacementRequest struct {
	KeepID uuid.UUID `json:"keep_id"`
}

// GetReplacementPair handles POST /api/pair/replacement.
// Keeps one item of the current pair and draws a new opponent for it.
func (h *VotingHandler) GetReplacementPair(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	var req replacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeParamError(w, "invalid_request", "Request body must be valid JSON with keep_id", h.logger)
		return
	}
	if req.KeepID == uuid.Nil {
		writeParamError(w, "invalid_request", "keep_id is required", h.logger)
		return
	}

	pair, err := h.pairs.GetReplacementPair(r.Context(), actorID, req.KeepID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, pair); err != nil {
		h.logger.Error("Failed to encode pair response", zap.Error(err))
	}
}

type voteRequest struct {
	WinnerID    uuid.UUID `json:"winner_id"`
	LoserID     uuid.UUID `json:"loser_id"`
	ContentType string    `json:"content_type"`
}

// SubmitVote handles POST /api/votes.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeParamError(w, "invalid_request", "Request body must be valid JSON", h.logger)
		return
	}
	if req.WinnerID == uuid.Nil || req.LoserID == uuid.Nil {
		writeParamError(w, "invalid_request", "winner_id and loser_id are required", h.logger)
		return
	}

	result, err := h.interactions.RecordVote(r.Context(), actorID, req.WinnerID, req.LoserID, req.ContentType)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode vote response", zap.Error(err))
	}
}

type interactionRequest struct {
	ContentID uuid.UUID `json:"content_id"`
	Kind      string    `json:"kind"`
}

// SubmitInteraction handles POST /api/interactions.
// Records watched, want_to_watch, or not_interested for a content item.
func (h *VotingHandler) SubmitInteraction(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeParamError(w, "invalid_request", "Request body must be valid JSON", h.logger)
		return
	}
	if req.ContentID == uuid.Nil {
		writeParamError(w, "invalid_request", "content_id is required", h.logger)
		return
	}

	if err := h.interactions.RecordInteraction(r.Context(), actorID, req.ContentID, req.Kind); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"recorded": true}); err != nil {
		h.logger.Error("Failed to encode interaction response", zap.Error(err))
	}
}

type passRequest struct {
	ContentID uuid.UUID `json:"content_id"`
}

// SubmitPass handles POST /api/passes.
func (h *VotingHandler) SubmitPass(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	var req passRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeParamError(w, "invalid_request", "Request body must be valid JSON", h.logger)
		return
	}
	if req.ContentID == uuid.Nil {
		writeParamError(w, "invalid_request", "content_id is required", h.logger)
		return
	}

	if err := h.interactions.RecordPass(r.Context(), actorID, req.ContentID); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"recorded": true}); err != nil {
		h.logger.Error("Failed to encode pass response", zap.Error(err))
	}
}

// GetStats handles GET /api/stats.
func (h *VotingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActorID(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	stats, err := h.interactions.GetStats(r.Context(), actorID)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}
