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

// ContentRepository is the engine's read surface onto the content catalog.
// The catalog is owned by the ingestion collaborator; this repository only
// ever writes during first-boot seeding.
type ContentRepository interface {
	List(ctx context.Context, contentType models.ContentType) ([]*models.ContentItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.ContentItem, error)
	Insert(ctx context.Context, item *models.ContentItem) error
	Count(ctx context.Context) (int, error)
}

type contentRepository struct {
	db *pgxpool.Pool
}

// NewContentRepository creates a new ContentRepository backed by Postgres.
func NewContentRepository(db *pgxpool.Pool) ContentRepository {
	return &contentRepository{db: db}
}

var _ ContentRepository = (*contentRepository)(nil)

const contentColumns = `id, external_id, title, year, content_type, genres, rating, poster, plot, created_at`

func (r *contentRepository) List(ctx context.Context, contentType models.ContentType) ([]*models.ContentItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM engine_content
		WHERE content_type = $1
		ORDER BY created_at, id`, contentColumns)

	rows, err := r.db.Query(ctx, query, contentType)
	if err != nil {
		return nil, catalogErr("failed to list content", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, catalogErr("error iterating content", err)
	}

	return items, nil
}

func (r *contentRepository) Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM engine_content WHERE id = $1`, contentColumns)

	item, err := scanContentItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Content not found
		}
		return nil, err
	}

	return item, nil
}

func (r *contentRepository) GetByExternalID(ctx context.Context, externalID string) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM engine_content WHERE external_id = $1`, contentColumns)

	item, err := scanContentItem(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Content not found
		}
		return nil, err
	}

	return item, nil
}

func (r *contentRepository) Insert(ctx context.Context, item *models.ContentItem) error {
	query := `
		INSERT INTO engine_content (external_id, title, year, content_type, genres, rating, poster, plot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		item.ExternalID,
		item.Title,
		item.Year,
		item.Type,
		item.Genres,
		item.Rating,
		item.Poster,
		item.Plot,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: the external id is already ingested. Resolve to the
			// canonical row so the caller sees the internal id.
			existing, getErr := r.GetByExternalID(ctx, item.ExternalID)
			if getErr != nil {
				return getErr
			}
			if existing != nil {
				item.ID = existing.ID
				item.CreatedAt = existing.CreatedAt
			}
			return nil
		}
		return catalogErr("failed to insert content", err)
	}

	return nil
}

func (r *contentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM engine_content`).Scan(&count); err != nil {
		return 0, catalogErr("failed to count content", err)
	}
	return count, nil
}

func scanContentItem(row pgx.Row) (*models.ContentItem, error) {
	var c models.ContentItem
	err := row.Scan(
		&c.ID,
		&c.ExternalID,
		&c.Title,
		&c.Year,
		&c.Type,
		&c.Genres,
		&c.Rating,
		&c.Poster,
		&c.Plot,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, catalogErr("failed to scan content item", err)
	}
	return &c, nil
}

// catalogErr marks catalog access failures as upstream unavailability so the
// HTTP layer can surface them as 502s without retrying inline.
func catalogErr(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, apperrors.ErrUpstreamUnavailable, err)
}
