package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

// RecommendationRepository persists materialized rankings. Regeneration is
// deliberately two calls (DeleteByActor then InsertBatch) rather than one
// transaction: a read racing a refresh may observe a partially emptied set,
// which the refresh policy tolerates because refreshes are idempotent and
// re-triggerable.
type RecommendationRepository interface {
	DeleteByActor(ctx context.Context, actorID uuid.UUID) error
	InsertBatch(ctx context.Context, recs []*models.ScoredRecommendation) error
	// ListByActor returns a page ordered by descending score along with the
	// actor's total row count.
	ListByActor(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error)
	CountByActor(ctx context.Context, actorID uuid.UUID) (int, error)
	// LatestGeneratedAt returns nil when the actor has no recommendations.
	LatestGeneratedAt(ctx context.Context, actorID uuid.UUID) (*time.Time, error)
}

type recommendationRepository struct {
	db *pgxpool.Pool
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *pgxpool.Pool) RecommendationRepository {
	return &recommendationRepository{db: db}
}

var _ RecommendationRepository = (*recommendationRepository)(nil)

func (r *recommendationRepository) DeleteByActor(ctx context.Context, actorID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM engine_recommendations WHERE actor_id = $1`, actorID); err != nil {
		return fmt.Errorf("failed to delete recommendations: %w", err)
	}
	return nil
}

func (r *recommendationRepository) InsertBatch(ctx context.Context, recs []*models.ScoredRecommendation) error {
	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(`
			INSERT INTO engine_recommendations (actor_id, content_id, score, confidence, justification, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.ActorID, rec.ContentID, rec.Score, rec.Confidence, rec.Justification, rec.GeneratedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	return nil
}

func (r *recommendationRepository) ListByActor(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error) {
	total, err := r.CountByActor(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.actor_id, r.content_id, r.score, r.confidence, r.justification, r.generated_at,
		       c.id, c.external_id, c.title, c.year, c.content_type, c.genres, c.rating, c.poster, c.plot, c.created_at
		FROM engine_recommendations r
		JOIN engine_content c ON c.id = r.content_id
		WHERE r.actor_id = $1
		ORDER BY r.score DESC, r.id
		OFFSET $2 LIMIT $3`,
		actorID, offset, limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.ScoredRecommendation
	for rows.Next() {
		var rec models.ScoredRecommendation
		var c models.ContentItem
		err := rows.Scan(
			&rec.ID, &rec.ActorID, &rec.ContentID, &rec.Score, &rec.Confidence, &rec.Justification, &rec.GeneratedAt,
			&c.ID, &c.ExternalID, &c.Title, &c.Year, &c.Type, &c.Genres, &c.Rating, &c.Poster, &c.Plot, &c.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.Content = &c
		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, total, nil
}

func (r *recommendationRepository) CountByActor(ctx context.Context, actorID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM engine_recommendations WHERE actor_id = $1`, actorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return count, nil
}

func (r *recommendationRepository) LatestGeneratedAt(ctx context.Context, actorID uuid.UUID) (*time.Time, error) {
	var generatedAt time.Time
	err := r.db.QueryRow(ctx, `
		SELECT generated_at
		FROM engine_recommendations
		WHERE actor_id = $1
		ORDER BY generated_at DESC
		LIMIT 1`, actorID,
	).Scan(&generatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No recommendations yet
		}
		return nil, fmt.Errorf("failed to get latest generation time: %w", err)
	}
	return &generatedAt, nil
}
