package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// buildExclusionSet collects the content ids permanently hidden from an
// actor: everything they marked watched, not_interested, or passed.
// Exclusions are matched on the internal content id only; external catalog
// ids are resolved to internal ids at ingestion, so a single identifier
// scheme covers the whole pipeline. The set only ever grows as events
// accumulate.
func buildExclusionSet(ctx context.Context, ledger repositories.InteractionRepository, actorID uuid.UUID) (models.ExclusionSet, error) {
	events, err := ledger.QueryByActor(ctx, actorID, models.ExclusionKinds, nil)
	if err != nil {
		return nil, err
	}

	set := make(models.ExclusionSet, len(events))
	for _, e := range events {
		set.Add(e.ContentID)
	}
	return set, nil
}

// loadCatalogIndex lists the full catalog and builds an id-keyed index over
// it. The ordered slice preserves the repository's listing order, movies
// before series, so rankings that break ties by position stay stable across
// regenerations. The listing goes through the (possibly cached) catalog
// repository, so this is cheap enough to do per request.
func loadCatalogIndex(ctx context.Context, catalog repositories.ContentRepository) ([]*models.ContentItem, map[uuid.UUID]*models.ContentItem, error) {
	var ordered []*models.ContentItem
	index := make(map[uuid.UUID]*models.ContentItem)
	for _, contentType := range []models.ContentType{models.ContentTypeMovie, models.ContentTypeSeries} {
		items, err := catalog.List(ctx, contentType)
		if err != nil {
			return nil, nil, err
		}
		for _, item := range items {
			ordered = append(ordered, item)
			index[item.ID] = item
		}
	}
	return ordered, index, nil
}
