package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/logging"
	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// SessionService manages anonymous actor sessions.
type SessionService interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
}

type sessionService struct {
	sessions repositories.SessionRepository
	logger   *zap.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions repositories.SessionRepository, logger *zap.Logger) SessionService {
	return &sessionService{sessions: sessions, logger: logger}
}

var _ SessionService = (*sessionService)(nil)

func (s *sessionService) Create(ctx context.Context) (*models.Session, error) {
	session, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session created", logging.Actor(session.ID))
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return s.sessions.Get(ctx, id)
}
