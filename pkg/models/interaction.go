package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionKind enumerates every event the ledger records. The set is
// closed: anything else is rejected with a validation error before it reaches
// the ledger.
type InteractionKind string

const (
	KindVoteWin       InteractionKind = "vote_win"
	KindVoteLose      InteractionKind = "vote_lose"
	KindWatched       InteractionKind = "watched"
	KindWantToWatch   InteractionKind = "want_to_watch"
	KindNotInterested InteractionKind = "not_interested"
	KindPassed        InteractionKind = "passed"
)

// ContentInteractionKinds are the kinds a client may record directly against
// a content item (votes and passes have dedicated entry points).
var ContentInteractionKinds = []InteractionKind{
	KindWatched,
	KindWantToWatch,
	KindNotInterested,
}

// IsContentInteractionKind reports whether s names a directly recordable kind.
func IsContentInteractionKind(s string) bool {
	for _, k := range ContentInteractionKinds {
		if InteractionKind(s) == k {
			return true
		}
	}
	return false
}

// ExclusionKinds are the kinds whose target content is permanently hidden
// from future pairs and recommendations.
var ExclusionKinds = []InteractionKind{
	KindWatched,
	KindNotInterested,
	KindPassed,
}

// InteractionEvent is one append-only ledger row. Events are never mutated;
// the ledger is the single source of truth for profiles and exclusions.
// Votes come in win/lose pairs sharing a ComparisonID.
type InteractionEvent struct {
	ID           uuid.UUID       `json:"id"`
	ActorID      uuid.UUID       `json:"actor_id"`
	ContentID    uuid.UUID       `json:"content_id"`
	Kind         InteractionKind `json:"kind"`
	ComparisonID *uuid.UUID      `json:"comparison_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Weight returns the fixed profile-building weight for a kind. Passed events
// carry zero weight: they exclude content but say nothing about taste.
func (k InteractionKind) Weight() float64 {
	switch k {
	case KindWantToWatch:
		return 1.0
	case KindWatched:
		return 0.8
	case KindVoteWin:
		return 0.6
	case KindVoteLose:
		return -0.3
	case KindNotInterested:
		return -0.5
	default:
		return 0
	}
}

// ExclusionSet is the set of content ids hidden from an actor. It only ever
// grows as watched/not_interested/passed events accumulate.
type ExclusionSet map[uuid.UUID]struct{}

// Add inserts a content id into the set.
func (s ExclusionSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

// Contains reports whether the content id is excluded.
func (s ExclusionSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}
