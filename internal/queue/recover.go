package queue

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
)

// StaleJobStore is the part of *db.Queries used for recovery.
type StaleJobStore interface {
	GetStaleFilterJobs(ctx context.Context, olderThanSeconds int64) ([]db.FilterJob, error)
	ResetFilterJob(ctx context.Context, id int64) error
}

// RecoverStaleJobs requeues jobs left in processing by a worker that died.
// A job counts as stale when its lease expired and it was not updated for
// olderThanSeconds. It returns the number of requeued jobs.
func RecoverStaleJobs(ctx context.Context, ch Publisher, q StaleJobStore, olderThanSeconds int64) (int, error) {
	staleJobs, err := q.GetStaleFilterJobs(ctx, olderThanSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to get stale jobs: %w", err)
	}

	if len(staleJobs) == 0 {
		logger.Debug("[Queue] No stale jobs found")
		return 0, nil
	}

	logger.Info("[Queue] Found stale jobs", "count", len(staleJobs))

	recovered := 0
	for _, job := range staleJobs {
		if err := q.ResetFilterJob(ctx, job.ID); err != nil {
			logger.Error("[Queue] Failed to reset job status", "job_id", job.ID, "err", err)
			continue
		}

		msgBytes, err := FilterJobMsg{
			Message: "Recovered stale job",
			JobID:   job.ID,
			ModelID: job.ModelID,
		}.Encode()
		if err != nil {
			logger.Error("[Queue] Failed to marshal queue message", "job_id", job.ID, "err", err)
			continue
		}

		if err := PublishFIFO(ctx, ch, FilterQueue, msgBytes); err != nil {
			logger.Error("[Queue] Failed to republish job", "job_id", job.ID, "err", err)
			continue
		}

		recovered++
		logger.Info("[Queue] Recovered stale job", "job_id", job.ID, "model_id", job.ModelID)
	}

	return recovered, nil
}
