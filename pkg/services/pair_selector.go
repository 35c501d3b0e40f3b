package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/config"
	"github.com/flickduel/flickduel-engine/pkg/logging"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// PairSelector produces comparison pairs for an actor. It is read-only:
// serving a pair records nothing; only a submitted vote touches the ledger.
type PairSelector interface {
	GetPair(ctx context.Context, actorID uuid.UUID) (*models.VotePair, error)
	// GetReplacementPair keeps keepID in the pair and finds a fresh
	// opponent of the same content type.
	GetReplacementPair(ctx context.Context, actorID, keepID uuid.UUID) (*models.VotePair, error)
}

type pairSelector struct {
	catalog  repositories.ContentRepository
	ledger   repositories.InteractionRepository
	sessions repositories.SessionRepository
	profiles ProfileBuilder
	cfg      *config.EngineConfig
	logger   *zap.Logger
}

// NewPairSelector creates a new PairSelector.
func NewPairSelector(
	catalog repositories.ContentRepository,
	ledger repositories.InteractionRepository,
	sessions repositories.SessionRepository,
	profiles ProfileBuilder,
	cfg *config.EngineConfig,
	logger *zap.Logger,
) PairSelector {
	return &pairSelector{
		catalog:  catalog,
		ledger:   ledger,
		sessions: sessions,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
	}
}

var _ PairSelector = (*pairSelector)(nil)

// GetPair picks a random content type, filters the catalog down to
// non-excluded items of that type, and samples a pair the actor has not
// voted on yet. Sampling is biased: below the personalization threshold it
// favors informative items (diverse genres, high rating, recent), past it
// the actor's own top genres and content-type affinity.
func (s *pairSelector) GetPair(ctx context.Context, actorID uuid.UUID) (*models.VotePair, error) {
	session, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	contentType := models.ContentTypeMovie
	if rand.Intn(2) == 1 {
		contentType = models.ContentTypeSeries
	}

	candidates, err := s.candidatesForType(ctx, actorID, contentType, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if len(candidates) < 2 {
		return nil, fmt.Errorf("%w: %d %s items remain after exclusions", apperrors.ErrInsufficientCandidates, len(candidates), contentType)
	}

	weights, err := s.sampleWeights(ctx, actorID, session.VoteCount, candidates)
	if err != nil {
		return nil, err
	}

	votedPairs, err := s.votedPairs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var first, second *models.ContentItem
	for attempt := 0; attempt < s.cfg.PairMaxAttempts; attempt++ {
		first, second = samplePair(candidates, weights)
		if _, voted := votedPairs[pairKey(first.ID, second.ID)]; !voted {
			return &models.VotePair{Item1: first, Item2: second, Type: contentType}, nil
		}
	}

	// Every sampled pair was already voted on; serve the last sample
	// instead of failing.
	s.logger.Debug("pair sampling exhausted, serving best-effort pair",
		logging.Actor(actorID),
		zap.Int("attempts", s.cfg.PairMaxAttempts))
	return &models.VotePair{Item1: first, Item2: second, Type: contentType}, nil
}

// GetReplacementPair inherits the content type from the kept item.
func (s *pairSelector) GetReplacementPair(ctx context.Context, actorID, keepID uuid.UUID) (*models.VotePair, error) {
	session, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	keep, err := s.catalog.Get(ctx, keepID)
	if err != nil {
		return nil, err
	}
	if keep == nil {
		return nil, fmt.Errorf("%w: content %s", apperrors.ErrNotFound, keepID)
	}

	candidates, err := s.candidatesForType(ctx, actorID, keep.Type, keepID)
	if err != nil {
		return nil, err
	}
	if len(candidates) < 1 {
		return nil, fmt.Errorf("%w: no %s opponents remain after exclusions", apperrors.ErrInsufficientCandidates, keep.Type)
	}

	weights, err := s.sampleWeights(ctx, actorID, session.VoteCount, candidates)
	if err != nil {
		return nil, err
	}

	votedPairs, err := s.votedPairs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var opponent *models.ContentItem
	for attempt := 0; attempt < s.cfg.PairMaxAttempts; attempt++ {
		opponent = candidates[sampleIndex(weights)]
		if _, voted := votedPairs[pairKey(keep.ID, opponent.ID)]; !voted {
			break
		}
	}

	return &models.VotePair{Item1: keep, Item2: opponent, Type: keep.Type}, nil
}

// candidatesForType lists the catalog for a type and strips excluded items
// and the optional keep id.
func (s *pairSelector) candidatesForType(ctx context.Context, actorID uuid.UUID, contentType models.ContentType, skip uuid.UUID) ([]*models.ContentItem, error) {
	items, err := s.catalog.List(ctx, contentType)
	if err != nil {
		return nil, err
	}

	exclusions, err := buildExclusionSet(ctx, s.ledger, actorID)
	if err != nil {
		return nil, err
	}

	candidates := make([]*models.ContentItem, 0, len(items))
	for _, item := range items {
		if exclusions.Contains(item.ID) || item.ID == skip {
			continue
		}
		candidates = append(candidates, item)
	}
	return candidates, nil
}

// sampleWeights returns one positive sampling weight per candidate.
func (s *pairSelector) sampleWeights(ctx context.Context, actorID uuid.UUID, voteCount int, candidates []*models.ContentItem) ([]float64, error) {
	if voteCount < s.cfg.PersonalizationThreshold {
		return coldStartWeights(candidates), nil
	}

	profile, err := s.profiles.Build(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return personalizedWeights(candidates, profile), nil
}

// coldStartWeights favors items that extract the most information from an
// early comparison: broad genre coverage, a strong catalog rating, and a
// recent release year.
func coldStartWeights(candidates []*models.ContentItem) []float64 {
	currentYear := time.Now().Year()
	weights := make([]float64, len(candidates))
	for i, item := range candidates {
		w := 1.0
		w += float64(len(item.Genres)) / 5.0
		if rating, ok := item.RatingValue(); ok {
			w += rating / 10.0
		}
		if recency := 1.0 - float64(currentYear-item.Year)/recencyHorizonYears; recency > 0 {
			w += recency
		}
		weights[i] = w
	}
	return weights
}

// personalizedWeights favors the actor's current top genres and preferred
// content type while leaving every candidate some probability mass.
func personalizedWeights(candidates []*models.ContentItem, profile *models.PreferenceProfile) []float64 {
	topGenres := profile.TopGenres(3)
	weights := make([]float64, len(candidates))
	for i, item := range candidates {
		w := 1.0
		for _, genre := range item.Genres {
			if containsString(topGenres, genre) {
				w += 1.0
				break
			}
		}
		if typePref, ok := profile.TypeWeights[item.Type]; ok {
			w += typePref
		}
		weights[i] = w
	}
	return weights
}

// votedPairs returns the set of unordered pairs the actor has already
// compared, keyed by pairKey. Win/lose halves are joined on ComparisonID.
func (s *pairSelector) votedPairs(ctx context.Context, actorID uuid.UUID) (map[string]struct{}, error) {
	events, err := s.ledger.QueryByActor(ctx, actorID, []models.InteractionKind{models.KindVoteWin, models.KindVoteLose}, nil)
	if err != nil {
		return nil, err
	}

	byComparison := make(map[uuid.UUID][]uuid.UUID)
	for _, e := range events {
		if e.ComparisonID == nil {
			continue
		}
		byComparison[*e.ComparisonID] = append(byComparison[*e.ComparisonID], e.ContentID)
	}

	pairs := make(map[string]struct{}, len(byComparison))
	for _, contentIDs := range byComparison {
		if len(contentIDs) == 2 {
			pairs[pairKey(contentIDs[0], contentIDs[1])] = struct{}{}
		}
	}
	return pairs, nil
}

// pairKey builds an order-independent key for a content pair.
func pairKey(a, b uuid.UUID) string {
	if b.String() < a.String() {
		a, b = b, a
	}
	return a.String() + ":" + b.String()
}

// samplePair draws two distinct items by weight.
func samplePair(candidates []*models.ContentItem, weights []float64) (*models.ContentItem, *models.ContentItem) {
	i := sampleIndex(weights)

	// Re-draw the second item with the first one's weight removed.
	reduced := make([]float64, len(weights))
	copy(reduced, weights)
	reduced[i] = 0
	j := sampleIndex(reduced)
	if j == i {
		j = (i + 1) % len(candidates)
	}

	return candidates[i], candidates[j]
}

// sampleIndex draws an index proportionally to its weight. Falls back to a
// uniform draw when all weights are zero.
func sampleIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rand.Intn(len(weights))
	}

	target := rand.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
