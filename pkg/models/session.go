package models

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies an actor: either an anonymous browser session or an
// authenticated user mapped to a session row by the surrounding auth layer.
// VoteCount is the actor's lifetime pairwise-vote total and drives the
// cold-start/personalized strategy switch.
type Session struct {
	ID        uuid.UUID `json:"session_id"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// VotingStats summarizes an actor's voting history for the stats endpoint.
type VotingStats struct {
	TotalVotes                int  `json:"total_votes"`
	MovieVotes                int  `json:"movie_votes"`
	SeriesVotes               int  `json:"series_votes"`
	VotesUntilRecommendations int  `json:"votes_until_recommendations"`
	RecommendationsAvailable  bool `json:"recommendations_available"`
}
