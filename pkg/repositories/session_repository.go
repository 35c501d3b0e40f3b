package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/models"
)

// SessionRepository provides data access for actor sessions and their vote
// counters.
type SessionRepository interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	// IncrementVoteCount bumps the counter and returns the new total.
	IncrementVoteCount(ctx context.Context, id uuid.UUID) (int, error)
}

type sessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) SessionRepository {
	return &sessionRepository{db: db}
}

var _ SessionRepository = (*sessionRepository)(nil)

func (r *sessionRepository) Create(ctx context.Context) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx, `
		INSERT INTO engine_sessions DEFAULT VALUES
		RETURNING id, vote_count, created_at`,
	).Scan(&s.ID, &s.VoteCount, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, vote_count, created_at
		FROM engine_sessions
		WHERE id = $1`, id,
	).Scan(&s.ID, &s.VoteCount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) IncrementVoteCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		UPDATE engine_sessions
		SET vote_count = vote_count + 1
		WHERE id = $1
		RETURNING vote_count`, id,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment vote count: %w", err)
	}
	return count, nil
}
