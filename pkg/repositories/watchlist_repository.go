package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

// WatchlistRepository provides data access for user-curated and algorithmic
// watchlist entries.
type WatchlistRepository interface {
	// Upsert inserts an entry, leaving an existing (actor, content, source)
	// row untouched so repeated want_to_watch events stay idempotent.
	Upsert(ctx context.Context, entry *models.WatchlistEntry) error
	// Remove deletes one entry and reports whether a row was removed.
	Remove(ctx context.Context, actorID, contentID uuid.UUID, source models.WatchlistSource) (bool, error)
	// DeleteBySource clears a whole sub-list, used before mirroring a fresh
	// recommendation set into the algorithmic list.
	DeleteBySource(ctx context.Context, actorID uuid.UUID, source models.WatchlistSource) error
	// List returns a page of the actor's entries with content joined in,
	// algorithmic priority first, newest first within equal priority.
	// contentType narrows by type when non-nil.
	List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error)
}

type watchlistRepository struct {
	db *pgxpool.Pool
}

// NewWatchlistRepository creates a new WatchlistRepository.
func NewWatchlistRepository(db *pgxpool.Pool) WatchlistRepository {
	return &watchlistRepository{db: db}
}

var _ WatchlistRepository = (*watchlistRepository)(nil)

func (r *watchlistRepository) Upsert(ctx context.Context, entry *models.WatchlistEntry) error {
	query := `
		INSERT INTO engine_watchlist (actor_id, content_id, source, priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, content_id, source) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, entry.ActorID, entry.ContentID, entry.Source, entry.Priority); err != nil {
		return fmt.Errorf("failed to upsert watchlist entry: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Remove(ctx context.Context, actorID, contentID uuid.UUID, source models.WatchlistSource) (bool, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM engine_watchlist
		WHERE actor_id = $1 AND content_id = $2 AND source = $3`,
		actorID, contentID, source,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *watchlistRepository) DeleteBySource(ctx context.Context, actorID uuid.UUID, source models.WatchlistSource) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM engine_watchlist
		WHERE actor_id = $1 AND source = $2`,
		actorID, source,
	); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error) {
	where := `WHERE w.actor_id = $1`
	args := []any{actorID}
	if contentType != nil {
		args = append(args, *contentType)
		where += fmt.Sprintf(" AND c.content_type = $%d", len(args))
	}

	var total int
	countQuery := fmt.Sprintf(`
		SELECT count(*)
		FROM engine_watchlist w
		JOIN engine_content c ON c.id = w.content_id
		%s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count watchlist: %w", err)
	}

	args = append(args, offset, limit)
	listQuery := fmt.Sprintf(`
		SELECT w.id, w.actor_id, w.content_id, w.source, w.priority, w.added_at,
		       c.id, c.external_id, c.title, c.year, c.content_type, c.genres, c.rating, c.poster, c.plot, c.created_at
		FROM engine_watchlist w
		JOIN engine_content c ON c.id = w.content_id
		%s
		ORDER BY w.priority DESC, w.added_at DESC, w.id
		OFFSET $%d LIMIT $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []*models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		var c models.ContentItem
		err := rows.Scan(
			&e.ID, &e.ActorID, &e.ContentID, &e.Source, &e.Priority, &e.AddedAt,
			&c.ID, &c.ExternalID, &c.Title, &c.Year, &c.Type, &c.Genres, &c.Rating, &c.Poster, &c.Plot, &c.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		e.Content = &c
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return entries, total, nil
}
