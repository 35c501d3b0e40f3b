package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

// cachedContentRepository decorates a ContentRepository with a short-TTL
// Redis cache for List, the hottest read path (every pair request lists the
// catalog). Cache failures are logged and fall through to Postgres; a stale
// listing within the TTL window is acceptable because the catalog only grows.
type cachedContentRepository struct {
	inner  ContentRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedContentRepository wraps inner with a Redis read-through cache.
// A nil client returns inner unchanged.
func NewCachedContentRepository(inner ContentRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ContentRepository {
	if client == nil {
		return inner
	}
	return &cachedContentRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.Named("content_cache"),
	}
}

func listCacheKey(contentType models.ContentType) string {
	return "catalog:list:" + string(contentType)
}

func (r *cachedContentRepository) List(ctx context.Context, contentType models.ContentType) ([]*models.ContentItem, error) {
	key := listCacheKey(contentType)

	cached, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var items []*models.ContentItem
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
	} else if err != redis.Nil {
		r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, err := r.inner.List(ctx, contentType)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
			r.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return items, nil
}

func (r *cachedContentRepository) Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	return r.inner.Get(ctx, id)
}

func (r *cachedContentRepository) GetByExternalID(ctx context.Context, externalID string) (*models.ContentItem, error) {
	return r.inner.GetByExternalID(ctx, externalID)
}

func (r *cachedContentRepository) Insert(ctx context.Context, item *models.ContentItem) error {
	if err := r.inner.Insert(ctx, item); err != nil {
		return err
	}
	// Seeding invalidates listings so fresh content shows up immediately.
	if err := r.client.Del(ctx, listCacheKey(item.Type)).Err(); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("key", listCacheKey(item.Type)), zap.Error(err))
	}
	return nil
}

func (r *cachedContentRepository) Count(ctx context.Context) (int, error) {
	return r.inner.Count(ctx)
}
