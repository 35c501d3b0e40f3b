package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

// InteractionRepository is the append-only interaction ledger. Events are
// never updated or deleted; everything derived (profiles, exclusions, voted
// pairs) is recomputed from queries against it.
type InteractionRepository interface {
	Append(ctx context.Context, event *models.InteractionEvent) error
	// QueryByActor returns the actor's events, oldest first. kinds narrows
	// the result when non-empty; since narrows it to events at or after the
	// given instant.
	QueryByActor(ctx context.Context, actorID uuid.UUID, kinds []models.InteractionKind, since *time.Time) ([]*models.InteractionEvent, error)
	CountByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) (int, error)
}

type interactionRepository struct {
	db *pgxpool.Pool
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{db: db}
}

var _ InteractionRepository = (*interactionRepository)(nil)

func (r *interactionRepository) Append(ctx context.Context, event *models.InteractionEvent) error {
	query := `
		INSERT INTO engine_interactions (actor_id, content_id, kind, comparison_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		event.ActorID,
		event.ContentID,
		event.Kind,
		event.ComparisonID,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}

	return nil
}

func (r *interactionRepository) QueryByActor(ctx context.Context, actorID uuid.UUID, kinds []models.InteractionKind, since *time.Time) ([]*models.InteractionEvent, error) {
	query := `
		SELECT id, actor_id, content_id, kind, comparison_id, created_at
		FROM engine_interactions
		WHERE actor_id = $1`
	args := []any{actorID}

	if len(kinds) > 0 {
		kindStrings := make([]string, len(kinds))
		for i, k := range kinds {
			kindStrings[i] = string(k)
		}
		args = append(args, kindStrings)
		query += fmt.Sprintf(" AND kind = ANY($%d)", len(args))
	}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var events []*models.InteractionEvent
	for rows.Next() {
		var e models.InteractionEvent
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ContentID, &e.Kind, &e.ComparisonID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return events, nil
}

func (r *interactionRepository) CountByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM engine_interactions
		WHERE actor_id = $1 AND created_at >= $2`,
		actorID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
