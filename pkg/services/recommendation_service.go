package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/config"
	"github.com/flickduel/flickduel-engine/pkg/logging"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// RecommendationService generates, refreshes, and serves per-actor
// recommendation sets.
type RecommendationService interface {
	// Generate rebuilds the actor's recommendations on demand and returns
	// the fresh set.
	Generate(ctx context.Context, actorID uuid.UUID) ([]*models.ScoredRecommendation, error)
	// RefreshBackground rebuilds the actor's recommendations with the
	// smaller background set size. It is meant to run inside the work
	// queue, never on a request path.
	RefreshBackground(ctx context.Context, actorID uuid.UUID) error
	// Get returns the stored recommendations, paged, plus the total count.
	Get(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error)
	// NeedsRefresh reports whether the stored set is stale. Strict mode
	// uses the wider thresholds intended for opportunistic refreshes.
	NeedsRefresh(ctx context.Context, actorID uuid.UUID, strict bool) (bool, error)
}

type recommendationService struct {
	store     repositories.RecommendationRepository
	catalog   repositories.ContentRepository
	ledger    repositories.InteractionRepository
	sessions  repositories.SessionRepository
	watchlist repositories.WatchlistRepository
	profiles  ProfileBuilder
	scorer    ContentScorer
	cfg       *config.EngineConfig
	logger    *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(
	store repositories.RecommendationRepository,
	catalog repositories.ContentRepository,
	ledger repositories.InteractionRepository,
	sessions repositories.SessionRepository,
	watchlist repositories.WatchlistRepository,
	profiles ProfileBuilder,
	scorer ContentScorer,
	cfg *config.EngineConfig,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		store:     store,
		catalog:   catalog,
		ledger:    ledger,
		sessions:  sessions,
		watchlist: watchlist,
		profiles:  profiles,
		scorer:    scorer,
		cfg:       cfg,
		logger:    logger,
	}
}

var _ RecommendationService = (*recommendationService)(nil)

func (s *recommendationService) Generate(ctx context.Context, actorID uuid.UUID) ([]*models.ScoredRecommendation, error) {
	return s.regenerate(ctx, actorID, s.cfg.RecommendationCount)
}

func (s *recommendationService) RefreshBackground(ctx context.Context, actorID uuid.UUID) error {
	_, err := s.regenerate(ctx, actorID, s.cfg.BackgroundRecommendationCount)
	return err
}

// regenerate computes a fresh recommendation set of at most n items and
// replaces the stored one. The stored set is fully rewritten every time so
// readers never see a mix of two generations' scores.
func (s *recommendationService) regenerate(ctx context.Context, actorID uuid.UUID, n int) ([]*models.ScoredRecommendation, error) {
	session, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Build(ctx, actorID)
	if err != nil {
		return nil, err
	}

	excluded, err := buildExclusionSet(ctx, s.ledger, actorID)
	if err != nil {
		return nil, err
	}

	catalog, index, err := loadCatalogIndex(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	var recs []*models.ScoredRecommendation
	if session.VoteCount < s.cfg.PersonalizationThreshold {
		recs, err = s.winCountFallback(ctx, actorID, index, excluded, n)
		if err != nil {
			return nil, err
		}
	} else {
		recs = s.scoreAndRank(actorID, profile, catalog, excluded, n)
	}

	generatedAt := time.Now().UTC()
	for _, rec := range recs {
		rec.GeneratedAt = generatedAt
	}

	if err := s.store.DeleteByActor(ctx, actorID); err != nil {
		return nil, err
	}
	if err := s.store.InsertBatch(ctx, recs); err != nil {
		return nil, err
	}
	if err := s.mirrorWatchlist(ctx, actorID, recs); err != nil {
		return nil, err
	}

	s.logger.Info("recommendations regenerated",
		logging.Actor(actorID),
		zap.Int("count", len(recs)),
		zap.Bool("personalized", session.VoteCount >= s.cfg.PersonalizationThreshold))

	return recs, nil
}

// scoreAndRank scores every non-excluded catalog item against the profile
// and keeps the top n. Candidates are walked in catalog listing order so the
// ranker's stable sort breaks score ties the same way on every regeneration.
func (s *recommendationService) scoreAndRank(actorID uuid.UUID, profile *models.PreferenceProfile, catalog []*models.ContentItem, excluded models.ExclusionSet, n int) []*models.ScoredRecommendation {
	candidates := make([]*models.ContentItem, 0, len(catalog))
	for _, item := range catalog {
		if excluded.Contains(item.ID) {
			continue
		}
		candidates = append(candidates, item)
	}

	top := s.scorer.RankTop(candidates, profile, n)
	confidence := s.scorer.Confidence(profile)

	recs := make([]*models.ScoredRecommendation, 0, len(top))
	for _, scored := range top {
		recs = append(recs, &models.ScoredRecommendation{
			ID:            uuid.New(),
			ActorID:       actorID,
			ContentID:     scored.Item.ID,
			Score:         scored.Score,
			Confidence:    confidence,
			Justification: s.scorer.Justify(scored.Item, profile),
			Content:       scored.Item,
		})
	}
	return recs
}

// winCountFallback ranks content the actor has already voted for by win
// count. It is the pre-personalization answer for actors below the vote
// threshold who ask for recommendations anyway.
func (s *recommendationService) winCountFallback(ctx context.Context, actorID uuid.UUID, index map[uuid.UUID]*models.ContentItem, excluded models.ExclusionSet, n int) ([]*models.ScoredRecommendation, error) {
	votes, err := s.ledger.QueryByActor(ctx, actorID, []models.InteractionKind{models.KindVoteWin, models.KindVoteLose}, nil)
	if err != nil {
		return nil, fmt.Errorf("win count fallback: %w", err)
	}

	wins := make(map[uuid.UUID]int)
	totals := make(map[uuid.UUID]int)
	for _, event := range votes {
		totals[event.ContentID]++
		if event.Kind == models.KindVoteWin {
			wins[event.ContentID]++
		}
	}

	ranked := make([]uuid.UUID, 0, len(wins))
	for id := range wins {
		if excluded.Contains(id) {
			continue
		}
		if _, ok := index[id]; !ok {
			continue
		}
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if wins[ranked[i]] != wins[ranked[j]] {
			return wins[ranked[i]] > wins[ranked[j]]
		}
		return ranked[i].String() < ranked[j].String()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	recs := make([]*models.ScoredRecommendation, 0, len(ranked))
	for _, id := range ranked {
		winCount := wins[id]
		winRate := float64(winCount) / float64(totals[id])
		recs = append(recs, &models.ScoredRecommendation{
			ID:            uuid.New(),
			ActorID:       actorID,
			ContentID:     id,
			Score:         winRate,
			Confidence:    0.3,
			Justification: fmt.Sprintf("You chose this %d times (%.0f%% win rate)", winCount, winRate*100),
			Content:       index[id],
		})
	}
	return recs, nil
}

// mirrorWatchlist replaces the algorithmic watchlist with the new
// recommendation set. User-curated entries are untouched; the unique
// constraint keeps an item already on the user list from being duplicated.
func (s *recommendationService) mirrorWatchlist(ctx context.Context, actorID uuid.UUID, recs []*models.ScoredRecommendation) error {
	if err := s.watchlist.DeleteBySource(ctx, actorID, models.WatchlistSourceAlgorithmic); err != nil {
		return err
	}
	for _, rec := range recs {
		entry := &models.WatchlistEntry{
			ActorID:   actorID,
			ContentID: rec.ContentID,
			Source:    models.WatchlistSourceAlgorithmic,
			Priority:  watchlistPriority(rec.Score),
		}
		if err := s.watchlist.Upsert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// watchlistPriority maps a [0,1] score onto the 1..5 priority scale.
func watchlistPriority(score float64) int {
	priority := int(math.Round(score * 5))
	if priority < 1 {
		return 1
	}
	if priority > 5 {
		return 5
	}
	return priority
}

func (s *recommendationService) Get(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error) {
	if _, err := s.sessions.Get(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.store.ListByActor(ctx, actorID, offset, limit)
}

func (s *recommendationService) NeedsRefresh(ctx context.Context, actorID uuid.UUID, strict bool) (bool, error) {
	generatedAt, err := s.store.LatestGeneratedAt(ctx, actorID)
	if err != nil {
		return false, err
	}
	if generatedAt == nil {
		return true, nil
	}

	minInteractions := s.cfg.RefreshMinInteractions
	maxAge := s.cfg.RefreshMaxAge
	if strict {
		minInteractions = s.cfg.RefreshMinInteractionsStrict
		maxAge = s.cfg.RefreshMaxAgeStrict
	}

	if time.Since(*generatedAt) >= maxAge {
		return true, nil
	}

	interactions, err := s.ledger.CountByActorSince(ctx, actorID, *generatedAt)
	if err != nil {
		return false, err
	}
	return interactions >= minInteractions, nil
}
