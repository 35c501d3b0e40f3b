package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/config"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// RefreshScheduler schedules a background recommendation refresh for an
// actor. Implementations must return immediately: the triggering request is
// never blocked on, and never learns about, refresh work.
type RefreshScheduler interface {
	ScheduleRefresh(actorID uuid.UUID)
}

// InteractionService records votes, content interactions, and passes into
// the ledger, and triggers background refreshes at the appropriate moments.
type InteractionService interface {
	RecordVote(ctx context.Context, actorID, winnerID, loserID uuid.UUID, contentType string) (*models.VoteResult, error)
	RecordInteraction(ctx context.Context, actorID, contentID uuid.UUID, kind string) error
	RecordPass(ctx context.Context, actorID, contentID uuid.UUID) error
	GetStats(ctx context.Context, actorID uuid.UUID) (*models.VotingStats, error)
}

type interactionService struct {
	ledger    repositories.InteractionRepository
	catalog   repositories.ContentRepository
	sessions  repositories.SessionRepository
	watchlist repositories.WatchlistRepository
	scheduler RefreshScheduler
	cfg       *config.EngineConfig
	logger    *zap.Logger
}

// NewInteractionService creates a new InteractionService.
func NewInteractionService(
	ledger repositories.InteractionRepository,
	catalog repositories.ContentRepository,
	sessions repositories.SessionRepository,
	watchlist repositories.WatchlistRepository,
	scheduler RefreshScheduler,
	cfg *config.EngineConfig,
	logger *zap.Logger,
) InteractionService {
	return &interactionService{
		ledger:    ledger,
		catalog:   catalog,
		sessions:  sessions,
		watchlist: watchlist,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
	}
}

var _ InteractionService = (*interactionService)(nil)

// RecordVote appends the win/lose event pair for one comparison, bumps the
// actor's vote counter, and schedules a background refresh when the counter
// crosses the personalization threshold or hits a milestone.
func (s *interactionService) RecordVote(ctx context.Context, actorID, winnerID, loserID uuid.UUID, contentType string) (*models.VoteResult, error) {
	if !models.IsValidContentType(contentType) {
		return nil, fmt.Errorf("%w: unknown content type %q", apperrors.ErrValidation, contentType)
	}
	if winnerID == loserID {
		return nil, fmt.Errorf("%w: winner and loser must differ", apperrors.ErrValidation)
	}

	if _, err := s.sessions.Get(ctx, actorID); err != nil {
		return nil, err
	}

	winner, err := s.requireContent(ctx, winnerID)
	if err != nil {
		return nil, err
	}
	loser, err := s.requireContent(ctx, loserID)
	if err != nil {
		return nil, err
	}
	if winner.Type != models.ContentType(contentType) || loser.Type != models.ContentType(contentType) {
		return nil, fmt.Errorf("%w: vote content type does not match items", apperrors.ErrValidation)
	}

	comparisonID := uuid.New()
	winEvent := &models.InteractionEvent{
		ActorID:      actorID,
		ContentID:    winnerID,
		Kind:         models.KindVoteWin,
		ComparisonID: &comparisonID,
	}
	loseEvent := &models.InteractionEvent{
		ActorID:      actorID,
		ContentID:    loserID,
		Kind:         models.KindVoteLose,
		ComparisonID: &comparisonID,
	}

	if err := s.ledger.Append(ctx, winEvent); err != nil {
		return nil, err
	}
	if err := s.ledger.Append(ctx, loseEvent); err != nil {
		return nil, err
	}

	totalVotes, err := s.sessions.IncrementVoteCount(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if s.isRefreshMilestone(totalVotes) {
		s.scheduler.ScheduleRefresh(actorID)
	}

	return &models.VoteResult{
		VoteRecorded:             true,
		TotalVotes:               totalVotes,
		RecommendationsAvailable: totalVotes >= s.cfg.PersonalizationThreshold,
	}, nil
}

// RecordInteraction appends a watched/want_to_watch/not_interested event.
// want_to_watch also lands on the user-curated watchlist. Any of the three
// kinds evicts the content from the algorithmic watchlist; when that happens
// for a personalized actor, the recommendations are stale by definition and
// a refresh is scheduled.
func (s *interactionService) RecordInteraction(ctx context.Context, actorID, contentID uuid.UUID, kind string) error {
	if !models.IsContentInteractionKind(kind) {
		return fmt.Errorf("%w: unknown interaction kind %q", apperrors.ErrValidation, kind)
	}

	session, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.requireContent(ctx, contentID); err != nil {
		return err
	}

	event := &models.InteractionEvent{
		ActorID:   actorID,
		ContentID: contentID,
		Kind:      models.InteractionKind(kind),
	}
	if err := s.ledger.Append(ctx, event); err != nil {
		return err
	}

	if event.Kind == models.KindWantToWatch {
		entry := &models.WatchlistEntry{
			ActorID:   actorID,
			ContentID: contentID,
			Source:    models.WatchlistSourceUser,
		}
		if err := s.watchlist.Upsert(ctx, entry); err != nil {
			return err
		}
	}

	removed, err := s.watchlist.Remove(ctx, actorID, contentID, models.WatchlistSourceAlgorithmic)
	if err != nil {
		return err
	}
	if removed && session.VoteCount >= s.cfg.PersonalizationThreshold {
		s.scheduler.ScheduleRefresh(actorID)
	}

	return nil
}

// RecordPass appends a passed event. Passes exclude the content from future
// pairs and recommendations but carry zero weight in profile building.
func (s *interactionService) RecordPass(ctx context.Context, actorID, contentID uuid.UUID) error {
	if _, err := s.sessions.Get(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.requireContent(ctx, contentID); err != nil {
		return err
	}

	return s.ledger.Append(ctx, &models.InteractionEvent{
		ActorID:   actorID,
		ContentID: contentID,
		Kind:      models.KindPassed,
	})
}

// GetStats summarizes the actor's voting progress.
func (s *interactionService) GetStats(ctx context.Context, actorID uuid.UUID) (*models.VotingStats, error) {
	session, err := s.sessions.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	wins, err := s.ledger.QueryByActor(ctx, actorID, []models.InteractionKind{models.KindVoteWin}, nil)
	if err != nil {
		return nil, err
	}

	_, index, err := loadCatalogIndex(ctx, s.catalog)
	if err != nil {
		return nil, err
	}

	stats := &models.VotingStats{
		TotalVotes:               session.VoteCount,
		RecommendationsAvailable: session.VoteCount >= s.cfg.PersonalizationThreshold,
	}
	if remaining := s.cfg.PersonalizationThreshold - session.VoteCount; remaining > 0 {
		stats.VotesUntilRecommendations = remaining
	}

	for _, win := range wins {
		item, ok := index[win.ContentID]
		if !ok {
			continue
		}
		switch item.Type {
		case models.ContentTypeMovie:
			stats.MovieVotes++
		case models.ContentTypeSeries:
			stats.SeriesVotes++
		}
	}

	return stats, nil
}

// isRefreshMilestone reports whether a vote total should trigger a refresh:
// the personalization threshold itself or any later milestone.
func (s *interactionService) isRefreshMilestone(totalVotes int) bool {
	if totalVotes == s.cfg.PersonalizationThreshold {
		return true
	}
	for _, milestone := range s.cfg.VoteMilestones() {
		if totalVotes == milestone {
			return true
		}
	}
	return false
}

func (s *interactionService) requireContent(ctx context.Context, contentID uuid.UUID) (*models.ContentItem, error) {
	item, err := s.catalog.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: content %s", apperrors.ErrNotFound, contentID)
	}
	return item, nil
}
