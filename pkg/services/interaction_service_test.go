package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/models"
)

type interactionFixture struct {
	catalog   *mockContentRepository
	ledger    *mockInteractionRepository
	sessions  *mockSessionRepository
	watchlist *mockWatchlistRepository
	scheduler *mockScheduler
	service   InteractionService
}

func newInteractionFixture() *interactionFixture {
	f := &interactionFixture{
		catalog:   mixedCatalog(),
		ledger:    &mockInteractionRepository{},
		sessions:  newMockSessionRepository(),
		watchlist: &mockWatchlistRepository{},
		scheduler: &mockScheduler{},
	}
	f.service = NewInteractionService(
		f.ledger, f.catalog, f.sessions, f.watchlist, f.scheduler,
		testEngineConfig(), zap.NewNop())
	return f
}

func TestInteractionService_RecordVote(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)
	winner := f.catalog.items[0]
	loser := f.catalog.items[1]

	result, err := f.service.RecordVote(context.Background(), actorID, winner.ID, loser.ID, "movie")
	require.NoError(t, err)

	assert.True(t, result.VoteRecorded)
	assert.Equal(t, 1, result.TotalVotes)
	assert.False(t, result.RecommendationsAvailable)

	require.Len(t, f.ledger.events, 2)
	winEvent, loseEvent := f.ledger.events[0], f.ledger.events[1]
	assert.Equal(t, models.KindVoteWin, winEvent.Kind)
	assert.Equal(t, winner.ID, winEvent.ContentID)
	assert.Equal(t, models.KindVoteLose, loseEvent.Kind)
	assert.Equal(t, loser.ID, loseEvent.ContentID)

	// Both halves share one comparison ID.
	require.NotNil(t, winEvent.ComparisonID)
	require.NotNil(t, loseEvent.ComparisonID)
	assert.Equal(t, *winEvent.ComparisonID, *loseEvent.ComparisonID)

	assert.Empty(t, f.scheduler.scheduled)
}

func TestInteractionService_RecordVoteValidation(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)
	movie := f.catalog.items[0]
	otherMovie := f.catalog.items[1]
	series := f.catalog.items[3]

	t.Run("unknown content type", func(t *testing.T) {
		_, err := f.service.RecordVote(context.Background(), actorID, movie.ID, otherMovie.ID, "documentary")
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("self vote", func(t *testing.T) {
		_, err := f.service.RecordVote(context.Background(), actorID, movie.ID, movie.ID, "movie")
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := f.service.RecordVote(context.Background(), actorID, movie.ID, series.ID, "movie")
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
	})

	t.Run("unknown content", func(t *testing.T) {
		_, err := f.service.RecordVote(context.Background(), actorID, uuid.New(), movie.ID, "movie")
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := f.service.RecordVote(context.Background(), uuid.New(), movie.ID, otherMovie.ID, "movie")
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	assert.Empty(t, f.ledger.events, "no partial writes on validation failure")
}

func TestInteractionService_VoteMilestonesTriggerRefresh(t *testing.T) {
	f := newInteractionFixture()
	// The next vote is the actor's tenth: the personalization threshold.
	actorID := f.sessions.addSession(9)
	winner, loser := f.catalog.items[0], f.catalog.items[1]

	result, err := f.service.RecordVote(context.Background(), actorID, winner.ID, loser.ID, "movie")
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalVotes)
	assert.True(t, result.RecommendationsAvailable)
	assert.Equal(t, []uuid.UUID{actorID}, f.scheduler.scheduled)

	// Vote 11 is not a milestone.
	_, err = f.service.RecordVote(context.Background(), actorID, loser.ID, winner.ID, "movie")
	require.NoError(t, err)
	assert.Len(t, f.scheduler.scheduled, 1)
}

func TestInteractionService_WantToWatchLandsOnUserWatchlist(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)
	item := f.catalog.items[2]

	err := f.service.RecordInteraction(context.Background(), actorID, item.ID, "want_to_watch")
	require.NoError(t, err)

	entries := f.watchlist.bySource(actorID, models.WatchlistSourceUser)
	require.Len(t, entries, 1)
	assert.Equal(t, item.ID, entries[0].ContentID)

	// Repeating the interaction stays idempotent on the watchlist.
	require.NoError(t, f.service.RecordInteraction(context.Background(), actorID, item.ID, "want_to_watch"))
	assert.Len(t, f.watchlist.bySource(actorID, models.WatchlistSourceUser), 1)
}

func TestInteractionService_InteractionEvictsAlgorithmicEntry(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(12)
	item := f.catalog.items[4]

	require.NoError(t, f.watchlist.Upsert(context.Background(), &models.WatchlistEntry{
		ActorID: actorID, ContentID: item.ID, Source: models.WatchlistSourceAlgorithmic, Priority: 4,
	}))

	err := f.service.RecordInteraction(context.Background(), actorID, item.ID, "watched")
	require.NoError(t, err)

	assert.Empty(t, f.watchlist.bySource(actorID, models.WatchlistSourceAlgorithmic))
	// Evicting a recommendation from a personalized actor schedules a
	// refresh.
	assert.Equal(t, []uuid.UUID{actorID}, f.scheduler.scheduled)
}

func TestInteractionService_EvictionBelowThresholdSkipsRefresh(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(3)
	item := f.catalog.items[4]

	require.NoError(t, f.watchlist.Upsert(context.Background(), &models.WatchlistEntry{
		ActorID: actorID, ContentID: item.ID, Source: models.WatchlistSourceAlgorithmic, Priority: 2,
	}))

	require.NoError(t, f.service.RecordInteraction(context.Background(), actorID, item.ID, "not_interested"))
	assert.Empty(t, f.scheduler.scheduled)
}

func TestInteractionService_RecordInteractionRejectsUnknownKind(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)

	err := f.service.RecordInteraction(context.Background(), actorID, f.catalog.items[0].ID, "vote_win")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	err = f.service.RecordInteraction(context.Background(), actorID, f.catalog.items[0].ID, "loved_it")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestInteractionService_RecordPass(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)
	item := f.catalog.items[5]

	require.NoError(t, f.service.RecordPass(context.Background(), actorID, item.ID))

	require.Len(t, f.ledger.events, 1)
	assert.Equal(t, models.KindPassed, f.ledger.events[0].Kind)
	assert.Equal(t, item.ID, f.ledger.events[0].ContentID)
	assert.Nil(t, f.ledger.events[0].ComparisonID)
}

func TestInteractionService_GetStats(t *testing.T) {
	f := newInteractionFixture()
	actorID := f.sessions.addSession(0)
	movieA, movieB := f.catalog.items[0], f.catalog.items[1]
	seriesA, seriesB := f.catalog.items[3], f.catalog.items[4]

	_, err := f.service.RecordVote(context.Background(), actorID, movieA.ID, movieB.ID, "movie")
	require.NoError(t, err)
	_, err = f.service.RecordVote(context.Background(), actorID, seriesA.ID, seriesB.ID, "series")
	require.NoError(t, err)
	_, err = f.service.RecordVote(context.Background(), actorID, seriesB.ID, seriesA.ID, "series")
	require.NoError(t, err)

	stats, err := f.service.GetStats(context.Background(), actorID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalVotes)
	assert.Equal(t, 1, stats.MovieVotes)
	assert.Equal(t, 2, stats.SeriesVotes)
	assert.Equal(t, 7, stats.VotesUntilRecommendations)
	assert.False(t, stats.RecommendationsAvailable)
}
