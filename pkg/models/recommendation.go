package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoredRecommendation is one persisted row of an actor's materialized
// ranking. A regeneration deletes and fully replaces the actor's prior set;
// there is no partial update path.
type ScoredRecommendation struct {
	ID            uuid.UUID `json:"id"`
	ActorID       uuid.UUID `json:"actor_id"`
	ContentID     uuid.UUID `json:"content_id"`
	Score         float64   `json:"score"`
	Confidence    float64   `json:"confidence"`
	Justification string    `json:"justification"`
	GeneratedAt   time.Time `json:"generated_at"`

	// Content is joined in on reads for API responses; nil on writes.
	Content *ContentItem `json:"content,omitempty"`
}
