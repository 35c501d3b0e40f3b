package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/flickduel/flickduel-engine/pkg/auth"
	"github.com/flickduel/flickduel-engine/pkg/models"
)

// injectActor stands in for the session middleware in handler tests.
func injectActor(actorID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithActorID(r.Context(), actorID)))
		})
	}
}

func serve(t *testing.T, register func(*http.ServeMux), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type mockSessionService struct {
	session *models.Session
	err     error
}

func (m *mockSessionService) Create(ctx context.Context) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockPairSelector struct {
	pair       *models.VotePair
	err        error
	lastKeepID uuid.UUID
}

func (m *mockPairSelector) GetPair(ctx context.Context, actorID uuid.UUID) (*models.VotePair, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pair, nil
}

func (m *mockPairSelector) GetReplacementPair(ctx context.Context, actorID, keepID uuid.UUID) (*models.VotePair, error) {
	m.lastKeepID = keepID
	if m.err != nil {
		return nil, m.err
	}
	return m.pair, nil
}

type mockInteractionService struct {
	voteResult *models.VoteResult
	stats      *models.VotingStats
	err        error

	lastWinnerID  uuid.UUID
	lastLoserID   uuid.UUID
	lastKind      string
	lastContentID uuid.UUID
	passCount     int
}

func (m *mockInteractionService) RecordVote(ctx context.Context, actorID, winnerID, loserID uuid.UUID, contentType string) (*models.VoteResult, error) {
	m.lastWinnerID = winnerID
	m.lastLoserID = loserID
	if m.err != nil {
		return nil, m.err
	}
	return m.voteResult, nil
}

func (m *mockInteractionService) RecordInteraction(ctx context.Context, actorID, contentID uuid.UUID, kind string) error {
	m.lastContentID = contentID
	m.lastKind = kind
	return m.err
}

func (m *mockInteractionService) RecordPass(ctx context.Context, actorID, contentID uuid.UUID) error {
	m.lastContentID = contentID
	m.passCount++
	return m.err
}

func (m *mockInteractionService) GetStats(ctx context.Context, actorID uuid.UUID) (*models.VotingStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type mockRecommendationService struct {
	recs       []*models.ScoredRecommendation
	total      int
	stale      bool
	err        error
	lastStrict bool
}

func (m *mockRecommendationService) Generate(ctx context.Context, actorID uuid.UUID) ([]*models.ScoredRecommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recs, nil
}

func (m *mockRecommendationService) RefreshBackground(ctx context.Context, actorID uuid.UUID) error {
	return m.err
}

func (m *mockRecommendationService) Get(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	end := offset + limit
	if offset > len(m.recs) {
		return nil, m.total, nil
	}
	if end > len(m.recs) {
		end = len(m.recs)
	}
	return m.recs[offset:end], m.total, nil
}

func (m *mockRecommendationService) NeedsRefresh(ctx context.Context, actorID uuid.UUID, strict bool) (bool, error) {
	m.lastStrict = strict
	if m.err != nil {
		return false, m.err
	}
	return m.stale, nil
}

type mockWatchlistService struct {
	entries []*models.WatchlistEntry
	total   int
	err     error

	lastFilter    *models.ContentType
	removedIDs    []uuid.UUID
	lastOffset    int
	lastListLimit int
}

func (m *mockWatchlistService) List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error) {
	m.lastFilter = contentType
	m.lastOffset = offset
	m.lastListLimit = limit
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.entries, m.total, nil
}

func (m *mockWatchlistService) Remove(ctx context.Context, actorID, contentID uuid.UUID) error {
	m.removedIDs = append(m.removedIDs, contentID)
	return m.err
}

func sampleItem(title string, contentType models.ContentType) *models.ContentItem {
	return &models.ContentItem{
		ID:        uuid.New(),
		Title:     title,
		Year:      2005,
		Type:      contentType,
		Genres:    []string{"Drama"},
		CreatedAt: time.Now(),
	}
}
