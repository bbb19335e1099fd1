package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/logger"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"go.uber.org/zap"
)

// ArchiveWorker periodically archives tasks whose due date has passed.
type ArchiveWorker struct {
	store     repository.Store
	audit     *services.AuditService
	interval  time.Duration
	batchSize int
}

func NewArchiveWorker(store repository.Store, audit *services.AuditService, interval time.Duration, batchSize int) *ArchiveWorker {
	if interval <= 0 {
		interval = constants.DefaultArchiveInterval
	}
	if batchSize <= 0 {
		batchSize = constants.DefaultArchiveBatchSize
	}
	return &ArchiveWorker{
		store:     store,
		audit:     audit,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start sweeps on every tick until ctx is cancelled.
func (w *ArchiveWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("archive worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sweep(ctx, time.Now().UTC()); err != nil {
				logger.Warn("archive sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("archive worker stopping")
			return
		}
	}
}

// Sweep archives every unarchived task due before now and returns how many
// it transitioned. Overdue tasks are read in id-ordered batches of batchSize
// until a short batch comes back. A task that fails to archive is logged and
// skipped; a task that another sweep or a manual archive got to first is not
// counted.
func (w *ArchiveWorker) Sweep(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()

	var (
		checked  int
		archived int
		failed   int
		afterID  uint64
	)
	for ctx.Err() == nil {
		tasks, err := w.store.Tasks().FindOverdue(ctx, now, afterID, w.batchSize)
		if err != nil {
			return archived, fmt.Errorf("finding overdue tasks: %w", err)
		}
		checked += len(tasks)

		for _, t := range tasks {
			if ctx.Err() != nil {
				break
			}
			afterID = t.ID

			ok, err := w.store.Tasks().Archive(ctx, t.ID, now)
			if err != nil {
				failed++
				logger.Warn("failed to archive task", zap.Uint64("task_id", t.ID), zap.Error(err))
				continue
			}
			if !ok {
				continue
			}
			archived++

			w.audit.Record(ctx, models.EntityTask, services.EntityID(t.ID), models.AuditActionAutoArchive, t.CreatorID, map[string]any{
				"archived_at": now,
				"due_at_utc":  t.DueAt,
			})
		}

		if len(tasks) < w.batchSize {
			break
		}
	}

	logger.Info("archive sweep finished",
		zap.Duration("took", time.Since(start)),
		zap.Int("checked", checked),
		zap.Int("archived", archived),
		zap.Int("failed", failed),
	)

	return archived, nil
}
