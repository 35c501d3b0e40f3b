package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/models"
	"github.com/flickduel/flickduel-engine/pkg/repositories"
)

// ProfileBuilder folds an actor's interaction history into a weighted
// preference profile. It is stateless and recomputes the full profile from
// the ledger on every call; profiles are never cached or persisted.
type ProfileBuilder interface {
	Build(ctx context.Context, actorID uuid.UUID) (*models.PreferenceProfile, error)
}

type profileBuilder struct {
	ledger  repositories.InteractionRepository
	catalog repositories.ContentRepository
	logger  *zap.Logger
}

// NewProfileBuilder creates a new ProfileBuilder.
func NewProfileBuilder(ledger repositories.InteractionRepository, catalog repositories.ContentRepository, logger *zap.Logger) ProfileBuilder {
	return &profileBuilder{
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
	}
}

var _ ProfileBuilder = (*profileBuilder)(nil)

// Build replays the actor's ledger against the catalog. Each weighted event
// on an item contributes its kind's weight to every genre of the item, to
// the item's decade, weight*0.1 to the content-type split, and rating*weight
// to the quality accumulator. Passed events carry zero weight and are
// skipped entirely.
func (b *profileBuilder) Build(ctx context.Context, actorID uuid.UUID) (*models.PreferenceProfile, error) {
	events, err := b.ledger.QueryByActor(ctx, actorID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction history: %w", err)
	}

	profile := models.NewPreferenceProfile()
	if len(events) == 0 {
		return profile, nil
	}

	_, index, err := loadCatalogIndex(ctx, b.catalog)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		weight := event.Kind.Weight()
		if weight == 0 {
			continue
		}

		item, ok := index[event.ContentID]
		if !ok {
			// Content has left the catalog since the event was recorded;
			// the event still counts toward strength but carries no
			// feature signal.
			b.logger.Debug("interaction references unknown content",
				zap.String("content_id", event.ContentID.String()))
		}

		if weight > 0 {
			profile.PositiveCount++
		} else {
			profile.NegativeCount++
		}

		if item == nil {
			continue
		}

		for _, genre := range item.Genres {
			profile.GenreWeights[genre] += weight
		}
		profile.DecadeWeights[item.Decade()] += weight
		profile.TypeWeights[item.Type] += weight * 0.1

		if rating, ok := item.RatingValue(); ok && rating > 0 {
			profile.QualityScore += rating * weight
		}
	}

	total := profile.PositiveCount + profile.NegativeCount
	if total > 0 {
		profile.Strength = float64(profile.PositiveCount) / float64(total)
	}

	normalizeWeights(profile.GenreWeights)
	normalizeWeights(profile.DecadeWeights)
	normalizeTypeWeights(profile.TypeWeights)

	return profile, nil
}

// normalizeWeights scales a weight map to sum to 1.0, but only when the raw
// sum is strictly positive. A map dominated by negative signal stays
// unnormalized so that negative-only history cannot inflate into apparent
// preference.
func normalizeWeights(weights map[string]float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for k := range weights {
		weights[k] /= sum
	}
}

func normalizeTypeWeights(weights map[models.ContentType]float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for k := range weights {
		weights[k] /= sum
	}
}
