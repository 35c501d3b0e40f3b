package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistSource distinguishes user-curated entries from rows mirrored out
// of a recommendation refresh. The two lists are managed independently: user
// entries are only ever touched by the user, algorithmic entries are replaced
// wholesale on refresh and evicted when the user interacts with the content.
type WatchlistSource string

const (
	WatchlistSourceUser        WatchlistSource = "user"
	WatchlistSourceAlgorithmic WatchlistSource = "algorithmic"
)

// WatchlistEntry is one row of an actor's watchlist. Priority is only
// meaningful for algorithmic entries (1..5, derived from the recommendation
// score).
type WatchlistEntry struct {
	ID        uuid.UUID       `json:"id"`
	ActorID   uuid.UUID       `json:"actor_id"`
	ContentID uuid.UUID       `json:"content_id"`
	Source    WatchlistSource `json:"source"`
	Priority  int             `json:"priority"`
	AddedAt   time.Time       `json:"added_at"`

	Content *ContentItem `json:"content,omitempty"`
}
