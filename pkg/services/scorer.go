package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

// Hybrid score blend. The genre signal dominates, quality and content-type
// carry the middle, decade and recency are small nudges.
const (
	genreWeight   = 0.40
	qualityWeight = 0.25
	typeWeight    = 0.20
	decadeWeight  = 0.10
	recencyWeight = 0.05

	// explorationFloor is the genre score for items whose genres the actor
	// has never interacted with; nonzero so unexplored corners of the
	// catalog still surface occasionally.
	explorationFloor = 0.2

	// neutralScore is used wherever the profile carries no signal for a
	// feature.
	neutralScore = 0.5

	// recencyHorizonYears is how far back the recency bonus decays to zero.
	recencyHorizonYears = 50
)

// ScoredItem pairs a catalog item with its hybrid score.
type ScoredItem struct {
	Item  *models.ContentItem
	Score float64
}

// ContentScorer ranks catalog items against a preference profile.
type ContentScorer interface {
	Score(item *models.ContentItem, profile *models.PreferenceProfile) float64
	Confidence(profile *models.PreferenceProfile) float64
	Justify(item *models.ContentItem, profile *models.PreferenceProfile) string
	// RankTop scores every item, sorts by descending score with ties kept
	// in catalog iteration order, and truncates to n.
	RankTop(items []*models.ContentItem, profile *models.PreferenceProfile, n int) []ScoredItem
}

type contentScorer struct {
	now func() time.Time
}

// NewContentScorer creates a new ContentScorer. now may be nil, in which
// case time.Now is used; tests inject a fixed clock.
func NewContentScorer(now func() time.Time) ContentScorer {
	if now == nil {
		now = time.Now
	}
	return &contentScorer{now: now}
}

var _ ContentScorer = (*contentScorer)(nil)

// Score blends genre, quality, content-type, decade, and recency signals
// into a single value clamped to [0,1].
func (s *contentScorer) Score(item *models.ContentItem, profile *models.PreferenceProfile) float64 {
	score := genreWeight * s.genreScore(item, profile)
	score += qualityWeight * s.qualityScore(item)
	score += typeWeight * s.typeScore(item, profile)
	score += decadeWeight * s.decadeScore(item, profile)
	score += recencyWeight * s.recencyScore(item)

	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}

func (s *contentScorer) genreScore(item *models.ContentItem, profile *models.PreferenceProfile) float64 {
	if len(item.Genres) == 0 || profile.IsEmpty() {
		return neutralScore
	}

	var total float64
	matched := 0
	for _, genre := range item.Genres {
		if weight, ok := profile.GenreWeights[genre]; ok {
			total += weight
			matched++
		}
	}

	if matched == 0 {
		return explorationFloor
	}
	return total / float64(matched)
}

func (s *contentScorer) qualityScore(item *models.ContentItem) float64 {
	if rating, ok := item.RatingValue(); ok && rating > 0 {
		return rating / 10.0
	}
	return neutralScore
}

func (s *contentScorer) typeScore(item *models.ContentItem, profile *models.PreferenceProfile) float64 {
	if weight, ok := profile.TypeWeights[item.Type]; ok {
		return weight
	}
	return neutralScore
}

func (s *contentScorer) decadeScore(item *models.ContentItem, profile *models.PreferenceProfile) float64 {
	if weight, ok := profile.DecadeWeights[item.Decade()]; ok {
		return weight
	}
	return 0.1
}

func (s *contentScorer) recencyScore(item *models.ContentItem) float64 {
	age := float64(s.now().Year() - item.Year)
	score := 1 - age/recencyHorizonYears
	if score < 0 {
		return 0
	}
	return score
}

// Confidence reflects how much positive signal backs the profile, uniform
// across an entire scored batch.
func (s *contentScorer) Confidence(profile *models.PreferenceProfile) float64 {
	confidence := profile.Strength * 2
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// Justify assembles up to three reasons in fixed priority: top-genre match,
// rating tier, recent release, content-type affinity. The output is
// deterministic for a given item and profile.
func (s *contentScorer) Justify(item *models.ContentItem, profile *models.PreferenceProfile) string {
	var reasons []string

	topGenres := profile.TopGenres(3)
	for _, genre := range item.Genres {
		if containsString(topGenres, genre) {
			reasons = append(reasons, fmt.Sprintf("matches your preference for %s", genre))
			break
		}
	}

	if rating, ok := item.RatingValue(); ok {
		if rating >= 8.0 {
			reasons = append(reasons, "highly rated content")
		} else if rating >= 7.0 {
			reasons = append(reasons, "well-reviewed")
		}
	}

	if s.now().Year()-item.Year <= 3 {
		reasons = append(reasons, "recent release")
	}

	if profile.TypeWeights[item.Type] > 0.6 {
		reasons = append(reasons, fmt.Sprintf("matches your %s preference", item.Type))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "explores new content areas")
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	return "Recommended because it " + strings.Join(reasons, " and ")
}

// RankTop scores and ranks items. sort.SliceStable keeps equal scores in
// catalog iteration order.
func (s *contentScorer) RankTop(items []*models.ContentItem, profile *models.PreferenceProfile, n int) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{Item: item, Score: s.Score(item, profile)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
