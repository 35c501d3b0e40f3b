package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flickduel/flickduel-engine/pkg/apperrors"
	"github.com/flickduel/flickduel-engine/pkg/models"
)

// mockContentRepository is a configurable in-memory catalog.
type mockContentRepository struct {
	items []*models.ContentItem

	listErr error
	getErr  error

	inserted []*models.ContentItem
}

func (m *mockContentRepository) List(ctx context.Context, contentType models.ContentType) ([]*models.ContentItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.ContentItem
	for _, item := range m.items {
		if item.Type == contentType {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockContentRepository) Get(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockContentRepository) GetByExternalID(ctx context.Context, externalID string) (*models.ContentItem, error) {
	for _, item := range m.items {
		if item.ExternalID == externalID {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockContentRepository) Insert(ctx context.Context, item *models.ContentItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items = append(m.items, item)
	m.inserted = append(m.inserted, item)
	return nil
}

func (m *mockContentRepository) Count(ctx context.Context) (int, error) {
	return len(m.items), nil
}

// mockInteractionRepository appends to a slice and answers queries from it.
type mockInteractionRepository struct {
	events []*models.InteractionEvent

	appendErr error
	queryErr  error
	// voteQueryErr fails only queries narrowed to vote kinds, leaving
	// exclusion-kind queries working.
	voteQueryErr error
}

func (m *mockInteractionRepository) Append(ctx context.Context, event *models.InteractionEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockInteractionRepository) QueryByActor(ctx context.Context, actorID uuid.UUID, kinds []models.InteractionKind, since *time.Time) ([]*models.InteractionEvent, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.voteQueryErr != nil && (kindIn(models.KindVoteWin, kinds) || kindIn(models.KindVoteLose, kinds)) {
		return nil, m.voteQueryErr
	}
	var out []*models.InteractionEvent
	for _, e := range m.events {
		if e.ActorID != actorID {
			continue
		}
		if len(kinds) > 0 && !kindIn(e.Kind, kinds) {
			continue
		}
		if since != nil && e.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockInteractionRepository) CountByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) (int, error) {
	count := 0
	for _, e := range m.events {
		if e.ActorID == actorID && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func kindIn(kind models.InteractionKind, kinds []models.InteractionKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// mockSessionRepository stores sessions keyed by ID.
type mockSessionRepository struct {
	sessions map[uuid.UUID]*models.Session

	getErr error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *mockSessionRepository) addSession(voteCount int) uuid.UUID {
	id := uuid.New()
	m.sessions[id] = &models.Session{ID: id, VoteCount: voteCount, CreatedAt: time.Now()}
	return id
}

func (m *mockSessionRepository) Create(ctx context.Context) (*models.Session, error) {
	s := &models.Session{ID: uuid.New(), CreatedAt: time.Now()}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *mockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) IncrementVoteCount(ctx context.Context, id uuid.UUID) (int, error) {
	s, ok := m.sessions[id]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	s.VoteCount++
	return s.VoteCount, nil
}

// mockRecommendationRepository stores one flat slice per actor.
type mockRecommendationRepository struct {
	recs map[uuid.UUID][]*models.ScoredRecommendation

	deleteCalls int
	insertErr   error
}

func newMockRecommendationRepository() *mockRecommendationRepository {
	return &mockRecommendationRepository{recs: make(map[uuid.UUID][]*models.ScoredRecommendation)}
}

func (m *mockRecommendationRepository) DeleteByActor(ctx context.Context, actorID uuid.UUID) error {
	m.deleteCalls++
	delete(m.recs, actorID)
	return nil
}

func (m *mockRecommendationRepository) InsertBatch(ctx context.Context, recs []*models.ScoredRecommendation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, rec := range recs {
		m.recs[rec.ActorID] = append(m.recs[rec.ActorID], rec)
	}
	return nil
}

func (m *mockRecommendationRepository) ListByActor(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]*models.ScoredRecommendation, int, error) {
	all := m.recs[actorID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockRecommendationRepository) CountByActor(ctx context.Context, actorID uuid.UUID) (int, error) {
	return len(m.recs[actorID]), nil
}

func (m *mockRecommendationRepository) LatestGeneratedAt(ctx context.Context, actorID uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	for _, rec := range m.recs[actorID] {
		t := rec.GeneratedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

// mockWatchlistRepository stores entries in a slice.
type mockWatchlistRepository struct {
	entries []*models.WatchlistEntry
}

func (m *mockWatchlistRepository) Upsert(ctx context.Context, entry *models.WatchlistEntry) error {
	for _, e := range m.entries {
		if e.ActorID == entry.ActorID && e.ContentID == entry.ContentID && e.Source == entry.Source {
			return nil
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.AddedAt = time.Now()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockWatchlistRepository) Remove(ctx context.Context, actorID, contentID uuid.UUID, source models.WatchlistSource) (bool, error) {
	for i, e := range m.entries {
		if e.ActorID == actorID && e.ContentID == contentID && e.Source == source {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWatchlistRepository) DeleteBySource(ctx context.Context, actorID uuid.UUID, source models.WatchlistSource) error {
	var kept []*models.WatchlistEntry
	for _, e := range m.entries {
		if e.ActorID == actorID && e.Source == source {
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return nil
}

func (m *mockWatchlistRepository) List(ctx context.Context, actorID uuid.UUID, contentType *models.ContentType, offset, limit int) ([]*models.WatchlistEntry, int, error) {
	var all []*models.WatchlistEntry
	for _, e := range m.entries {
		if e.ActorID == actorID {
			all = append(all, e)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockWatchlistRepository) bySource(actorID uuid.UUID, source models.WatchlistSource) []*models.WatchlistEntry {
	var out []*models.WatchlistEntry
	for _, e := range m.entries {
		if e.ActorID == actorID && e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// mockScheduler records scheduled refreshes.
type mockScheduler struct {
	scheduled []uuid.UUID
}

func (m *mockScheduler) ScheduleRefresh(actorID uuid.UUID) {
	m.scheduled = append(m.scheduled, actorID)
}
