package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/models"
)

func testItem(title string, contentType models.ContentType, year int, genres []string, rating float64) *models.ContentItem {
	item := &models.ContentItem{
		ID:         uuid.New(),
		ExternalID: "tt-" + title,
		Title:      title,
		Year:       year,
		Type:       contentType,
		Genres:     genres,
	}
	if rating > 0 {
		item.Rating = &rating
	}
	return item
}

func addVote(ledger *mockInteractionRepository, actorID uuid.UUID, winner, loser *models.ContentItem) {
	comparisonID := uuid.New()
	_ = ledger.Append(context.Background(), &models.InteractionEvent{
		ActorID: actorID, ContentID: winner.ID, Kind: models.KindVoteWin, ComparisonID: &comparisonID,
	})
	_ = ledger.Append(context.Background(), &models.InteractionEvent{
		ActorID: actorID, ContentID: loser.ID, Kind: models.KindVoteLose, ComparisonID: &comparisonID,
	})
}

func TestProfileBuilder_EmptyLedger(t *testing.T) {
	builder := NewProfileBuilder(&mockInteractionRepository{}, &mockContentRepository{}, zap.NewNop())

	profile, err := builder.Build(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.True(t, profile.IsEmpty())
	assert.Equal(t, 0.0, profile.Strength)
	assert.Equal(t, 0.5, profile.TypeWeights[models.ContentTypeMovie])
	assert.Equal(t, 0.5, profile.TypeWeights[models.ContentTypeSeries])
}

func TestProfileBuilder_NormalizedWeights(t *testing.T) {
	actorID := uuid.New()
	action := testItem("action one", models.ContentTypeMovie, 2010, []string{"Action"}, 8.0)
	drama := testItem("drama one", models.ContentTypeMovie, 1994, []string{"Drama"}, 9.0)
	thriller := testItem("thriller one", models.ContentTypeMovie, 2020, []string{"Thriller"}, 7.5)

	catalog := &mockContentRepository{items: []*models.ContentItem{action, drama, thriller}}
	ledger := &mockInteractionRepository{}
	for i := 0; i < 6; i++ {
		addVote(ledger, actorID, action, drama)
	}
	for i := 0; i < 4; i++ {
		addVote(ledger, actorID, drama, thriller)
	}

	builder := NewProfileBuilder(ledger, catalog, zap.NewNop())
	profile, err := builder.Build(context.Background(), actorID)
	require.NoError(t, err)

	var genreSum float64
	for _, w := range profile.GenreWeights {
		genreSum += w
	}
	assert.InDelta(t, 1.0, genreSum, 1e-9)

	var decadeSum float64
	for _, w := range profile.DecadeWeights {
		decadeSum += w
	}
	assert.InDelta(t, 1.0, decadeSum, 1e-9)

	// Six wins for Action outweigh Drama's mixed record.
	assert.Greater(t, profile.GenreWeights["Action"], profile.GenreWeights["Drama"])
	assert.Equal(t, []string{"Action"}, profile.TopGenres(1))

	// 10 wins, 10 losses.
	assert.Equal(t, 10, profile.PositiveCount)
	assert.Equal(t, 10, profile.NegativeCount)
	assert.InDelta(t, 0.5, profile.Strength, 1e-9)
}

func TestProfileBuilder_NegativeOnlyHistoryStaysUnnormalized(t *testing.T) {
	actorID := uuid.New()
	horror := testItem("horror one", models.ContentTypeMovie, 2015, []string{"Horror"}, 6.0)
	catalog := &mockContentRepository{items: []*models.ContentItem{horror}}

	ledger := &mockInteractionRepository{}
	require.NoError(t, ledger.Append(context.Background(), &models.InteractionEvent{
		ActorID: actorID, ContentID: horror.ID, Kind: models.KindNotInterested,
	}))

	builder := NewProfileBuilder(ledger, catalog, zap.NewNop())
	profile, err := builder.Build(context.Background(), actorID)
	require.NoError(t, err)

	// A negative-only map must keep its raw negative weight.
	assert.Equal(t, -0.5, profile.GenreWeights["Horror"])
	assert.Equal(t, 0.0, profile.Strength)
}

func TestProfileBuilder_PassCarriesNoWeight(t *testing.T) {
	actorID := uuid.New()
	item := testItem("passed item", models.ContentTypeSeries, 2018, []string{"Drama"}, 8.5)
	catalog := &mockContentRepository{items: []*models.ContentItem{item}}

	ledger := &mockInteractionRepository{}
	require.NoError(t, ledger.Append(context.Background(), &models.InteractionEvent{
		ActorID: actorID, ContentID: item.ID, Kind: models.KindPassed,
	}))

	builder := NewProfileBuilder(ledger, catalog, zap.NewNop())
	profile, err := builder.Build(context.Background(), actorID)
	require.NoError(t, err)

	assert.True(t, profile.IsEmpty())
	assert.Equal(t, 0, profile.PositiveCount)
	assert.Equal(t, 0, profile.NegativeCount)
}

func TestProfileBuilder_UnknownContentCountsTowardStrength(t *testing.T) {
	actorID := uuid.New()
	known := testItem("known", models.ContentTypeMovie, 2012, []string{"Sci-Fi"}, 8.8)
	vanished := testItem("vanished", models.ContentTypeMovie, 2005, []string{"Comedy"}, 7.0)

	// Catalog only knows one of the two items.
	catalog := &mockContentRepository{items: []*models.ContentItem{known}}
	ledger := &mockInteractionRepository{}
	addVote(ledger, actorID, known, vanished)

	builder := NewProfileBuilder(ledger, catalog, zap.NewNop())
	profile, err := builder.Build(context.Background(), actorID)
	require.NoError(t, err)

	assert.Equal(t, 1, profile.PositiveCount)
	assert.Equal(t, 1, profile.NegativeCount)
	// The vanished item contributed no genre signal.
	assert.NotContains(t, profile.GenreWeights, "Comedy")
	assert.Contains(t, profile.GenreWeights, "Sci-Fi")
}

func TestProfileBuilder_TypeAffinity(t *testing.T) {
	actorID := uuid.New()
	movie := testItem("movie", models.ContentTypeMovie, 2010, []string{"Action"}, 8.0)
	series := testItem("series", models.ContentTypeSeries, 2016, []string{"Action"}, 8.0)
	catalog := &mockContentRepository{items: []*models.ContentItem{movie, series}}

	ledger := &mockInteractionRepository{}
	for i := 0; i < 5; i++ {
		addVote(ledger, actorID, series, movie)
	}

	builder := NewProfileBuilder(ledger, catalog, zap.NewNop())
	profile, err := builder.Build(context.Background(), actorID)
	require.NoError(t, err)

	assert.Greater(t, profile.TypeWeights[models.ContentTypeSeries], profile.TypeWeights[models.ContentTypeMovie])

	var typeSum float64
	for _, w := range profile.TypeWeights {
		typeSum += w
	}
	assert.InDelta(t, 1.0, typeSum, 1e-9)
}
