package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flickduel/flickduel-engine/pkg/config"
	"github.com/flickduel/flickduel-engine/pkg/logging"
	"github.com/flickduel/flickduel-engine/pkg/services/workqueue"
)

const refreshTaskTimeout = 2 * time.Minute

// QueueRefreshScheduler bridges interaction handling and the work queue.
// Each actor gets at most one pending refresh at a time; the queue coalesces
// on the per-actor key.
type QueueRefreshScheduler struct {
	queue *workqueue.Queue
	recs  RecommendationService
}

// NewRefreshScheduler creates a scheduler backed by a throttled work queue.
func NewRefreshScheduler(recs RecommendationService, cfg *config.EngineConfig, logger *zap.Logger) *QueueRefreshScheduler {
	queue := workqueue.New(logger,
		workqueue.WithStrategy(workqueue.NewThrottledStrategy(cfg.RefreshConcurrency)),
	)
	return &QueueRefreshScheduler{queue: queue, recs: recs}
}

var _ RefreshScheduler = (*QueueRefreshScheduler)(nil)

func (s *QueueRefreshScheduler) ScheduleRefresh(actorID uuid.UUID) {
	task := workqueue.NewFuncTask(
		fmt.Sprintf("refresh recommendations for %s", logging.AbbreviateID(actorID)),
		"refresh:"+actorID.String(),
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, refreshTaskTimeout)
			defer cancel()

			stale, err := s.recs.NeedsRefresh(ctx, actorID, false)
			if err != nil {
				return err
			}
			if !stale {
				return nil
			}
			return s.recs.RefreshBackground(ctx, actorID)
		},
	)
	s.queue.Enqueue(task)
}

// Shutdown cancels in-flight refreshes. Pending work is dropped; the next
// vote or interaction re-triggers it.
func (s *QueueRefreshScheduler) Shutdown() {
	s.queue.Cancel()
}
