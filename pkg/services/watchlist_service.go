package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// WatchlistService serves the merged user-curated and algorithmic watchlist.
type WatchlistService interface {
	List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error)
	// Remove deletes the actor's user-curated entry for the given content.
	Remove(ctx context.Context, actorID, contentID uuid.UUID) error
}

type watchlistService struct {
	watchlist repositories.WatchlistRepository
	sessions  repositories.SessionRepository
	logger    *zap.Logger
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(watchlist repositories.WatchlistRepository, sessions repositories.SessionRepository, logger *zap.Logger) WatchlistService {
	return &watchlistService{watchlist: watchlist, sessions: sessions, logger: logger}
}

var _ WatchlistService = (*watchlistService)(nil)

func (s *watchlistService) List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error) {
	if _, err := s.sessions.Get(ctx, actorID); err != nil {
		return nil, 0, err
	}
	return s.watchlist.List(ctx, actorID, contentType, offset, limit)
}

func (s *watchlistService) Remove(ctx context.Context, actorID, contentID uuid.UUID) error {
	if _, err := s.sessions.Get(ctx, actorID); err != nil {
		return err
	}
	removed, err := s.watchlist.Remove(ctx, actorID, contentID, models.WatchlistSourceUser)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: watchlist entry for content %s", apperrors.ErrNotFound, contentID)
	}
	return nil
}
