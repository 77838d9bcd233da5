package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/storage"
	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"
	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
	"github.com/OFFIS-RIT/ifcfilter/pkg/leaselock"
	"github.com/OFFIS-RIT/ifcfilter/pkg/loader"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// maxErrorLength bounds error messages stored on job rows.
const maxErrorLength = 1000

// JobStore is the part of *db.Queries the worker needs.
type JobStore interface {
	GetModel(ctx context.Context, id int64) (db.Model, error)
	StartFilterJob(ctx context.Context, id int64) (db.FilterJob, error)
	CompleteFilterJob(ctx context.Context, arg db.CompleteFilterJobParams) error
	FailFilterJob(ctx context.Context, arg db.FailFilterJobParams) error
}

// ObjectStore is the part of storage.Bucket the worker needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Locker is satisfied by *leaselock.Client.
type Locker interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

// ModelSource resolves the stored file of a model row.
type ModelSource interface {
	ModelFile(m db.Model) loader.ModelFile
}

// Processor runs filter jobs.
type Processor struct {
	Jobs    JobStore
	Objects ObjectStore
	Locks   Locker
	Models  ModelSource
	// Events is optional. Status events are skipped when nil.
	Events Publisher
}

// ProcessFilterMessage runs the job named by body. Errors wrapped with
// util.Permanent have already been recorded on the job row and must not be
// retried.
func (p *Processor) ProcessFilterMessage(ctx context.Context, body []byte) error {
	msg, err := DecodeFilterJobMsg(body)
	if err != nil {
		return util.Permanent(err)
	}

	err = p.Locks.WithLease(ctx, leaselock.JobKey(msg.JobID), leaselock.JobOptions(msg.JobID), func(ctx context.Context) error {
		return p.runJob(ctx, msg)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Job is held by another worker", "job_id", msg.JobID)
		return nil
	}
	return err
}

func (p *Processor) runJob(ctx context.Context, msg FilterJobMsg) error {
	job, err := p.Jobs.StartFilterJob(ctx, msg.JobID)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info("[Queue] Job already finished or deleted, skipping", "job_id", msg.JobID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start job %d: %w", msg.JobID, err)
	}
	logger.Info("[Queue] Processing filter job", "job_id", job.ID, "model_id", job.ModelID, "attempt", job.Attempts)

	model, err := p.Jobs.GetModel(ctx, job.ModelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.fail(ctx, job, fmt.Errorf("model %d no longer exists", job.ModelID))
	}
	if err != nil {
		return fmt.Errorf("failed to get model %d: %w", job.ModelID, err)
	}

	var criteria filter.Criteria
	if err := json.Unmarshal(job.Criteria, &criteria); err != nil {
		return p.fail(ctx, job, fmt.Errorf("invalid criteria: %w", err))
	}

	src, err := p.Models.ModelFile(model).GetModel(ctx)
	if err != nil {
		if isFinal(err) {
			return p.fail(ctx, job, err)
		}
		return fmt.Errorf("failed to load model %d: %w", model.ID, err)
	}

	res, err := filter.Run(ctx, src, criteria)
	if err != nil {
		if isFinal(err) {
			return p.fail(ctx, job, err)
		}
		return err
	}

	data, err := res.Model.Bytes()
	if err != nil {
		return p.fail(ctx, job, fmt.Errorf("failed to serialize subset: %w", err))
	}

	outputName := job.OutputName
	if outputName == "" {
		outputName = filter.OutputName(model.FileName, criteria)
	}
	key := storage.ResultKey(model.ID, job.ID, outputName)
	if err := p.Objects.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to upload result: %w", err)
	}

	err = p.Jobs.CompleteFilterJob(ctx, db.CompleteFilterJobParams{
		ID:               job.ID,
		ResultKey:        pgtype.Text{String: key, Valid: true},
		OutputName:       outputName,
		SeedCount:        int32(res.Seeds),
		EntityCount:      int32(res.Entities),
		ContainmentEdges: int32(res.ContainmentEdges),
		AggregationEdges: int32(res.AggregationEdges),
		DurationMs:       res.Duration.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("failed to complete job %d: %w", job.ID, err)
	}

	metrics.ObserveRun(metrics.OutcomeCompleted, res.Duration.Seconds(), res.Entities)
	p.publish(ctx, JobEvent{JobID: job.ID, ModelID: model.ID, Status: db.JobStatusCompleted})
	logger.Info("[Queue] Filter job completed", "job_id", job.ID, "seeds", res.Seeds, "entities", res.Entities, "key", key)
	return nil
}

// isFinal reports errors that no retry can fix.
func isFinal(err error) bool {
	return errors.Is(err, filter.ErrNoMatchingStories) ||
		errors.Is(err, filter.ErrInvalidCriteria) ||
		errors.Is(err, filter.ErrMalformedModel) ||
		errors.Is(err, ifc.ErrSyntax) ||
		errors.Is(err, ifc.ErrDanglingReference) ||
		errors.Is(err, ifc.ErrDuplicateID) ||
		errors.Is(err, ifc.ErrNoModelInArchive)
}

// fail records cause on the job row and returns it as a permanent error.
func (p *Processor) fail(ctx context.Context, job db.FilterJob, cause error) error {
	msg := util.Truncate(util.SanitizePostgresText(cause.Error()), maxErrorLength)
	if err := p.Jobs.FailFilterJob(ctx, db.FailFilterJobParams{
		ID:           job.ID,
		ErrorMessage: pgtype.Text{String: msg, Valid: true},
	}); err != nil {
		return fmt.Errorf("failed to mark job %d failed: %w", job.ID, err)
	}
	logger.Warn("[Queue] Filter job failed", "job_id", job.ID, "err", cause)
	p.publish(ctx, JobEvent{JobID: job.ID, ModelID: job.ModelID, Status: db.JobStatusFailed, Error: msg})
	return util.Permanent(cause)
}

// MarkDeadLettered fails the job of a message that ran out of retries.
func (p *Processor) MarkDeadLettered(ctx context.Context, body []byte, cause error) {
	msg, err := DecodeFilterJobMsg(body)
	if err != nil {
		return
	}
	text := "gave up after repeated failures"
	if cause != nil {
		text = fmt.Sprintf("%s: %v", text, cause)
	}
	if err := p.Jobs.FailFilterJob(ctx, db.FailFilterJobParams{
		ID:           msg.JobID,
		ErrorMessage: pgtype.Text{String: util.Truncate(util.SanitizePostgresText(text), maxErrorLength), Valid: true},
	}); err != nil {
		logger.Error("[Queue] Failed to mark dead-lettered job", "job_id", msg.JobID, "err", err)
		return
	}
	p.publish(ctx, JobEvent{JobID: msg.JobID, ModelID: msg.ModelID, Status: db.JobStatusFailed, Error: text})
}

func (p *Processor) publish(ctx context.Context, event JobEvent) {
	if p.Events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := PublishTopic(pubCtx, p.Events, event.Topic(), data); err != nil {
		logger.Warn("[Queue] Failed to publish job event", "job_id", event.JobID, "err", err)
	}
}
