package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const filterJobColumns = `id, model_id, status, criteria, output_name, result_key, seed_count, entity_count, containment_edges, aggregation_edges, duration_ms, error_message, attempts, created_by, created_at, updated_at, started_at, finished_at`

func scanFilterJob(row interface{ Scan(...any) error }, i *FilterJob) error {
	return row.Scan(
		&i.ID,
		&i.ModelID,
		&i.Status,
		&i.Criteria,
		&i.OutputName,
		&i.ResultKey,
		&i.SeedCount,
		&i.EntityCount,
		&i.ContainmentEdges,
		&i.AggregationEdges,
		&i.DurationMs,
		&i.ErrorMessage,
		&i.Attempts,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.StartedAt,
		&i.FinishedAt,
	)
}

func collectFilterJobs(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
	Close()
}) ([]FilterJob, error) {
	defer rows.Close()
	items := []FilterJob{}
	for rows.Next() {
		var i FilterJob
		if err := scanFilterJob(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createFilterJob = `-- name: CreateFilterJob :one
INSERT INTO filter_jobs (model_id, criteria, output_name, created_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + filterJobColumns

type CreateFilterJobParams struct {
	ModelID    int64  `json:"model_id"`
	Criteria   []byte `json:"criteria"`
	OutputName string `json:"output_name"`
	CreatedBy  int64  `json:"created_by"`
}

func (q *Queries) CreateFilterJob(ctx context.Context, arg CreateFilterJobParams) (FilterJob, error) {
	row := q.db.QueryRow(ctx, createFilterJob, arg.ModelID, arg.Criteria, arg.OutputName, arg.CreatedBy)
	var i FilterJob
	err := scanFilterJob(row, &i)
	return i, err
}

const getFilterJob = `-- name: GetFilterJob :one
SELECT ` + filterJobColumns + `
FROM filter_jobs
WHERE id = $1`

func (q *Queries) GetFilterJob(ctx context.Context, id int64) (FilterJob, error) {
	row := q.db.QueryRow(ctx, getFilterJob, id)
	var i FilterJob
	err := scanFilterJob(row, &i)
	return i, err
}

const getFilterJobsForModel = `-- name: GetFilterJobsForModel :many
SELECT ` + filterJobColumns + `
FROM filter_jobs
WHERE model_id = $1
ORDER BY id DESC`

func (q *Queries) GetFilterJobsForModel(ctx context.Context, modelID int64) ([]FilterJob, error) {
	rows, err := q.db.Query(ctx, getFilterJobsForModel, modelID)
	if err != nil {
		return nil, err
	}
	return collectFilterJobs(rows)
}

const startFilterJob = `-- name: StartFilterJob :one
UPDATE filter_jobs
SET status = 'processing',
    attempts = attempts + 1,
    started_at = now(),
    updated_at = now()
WHERE id = $1 AND status IN ('pending', 'processing')
RETURNING ` + filterJobColumns

// StartFilterJob marks a job as processing. It returns pgx.ErrNoRows for jobs
// that already finished.
func (q *Queries) StartFilterJob(ctx context.Context, id int64) (FilterJob, error) {
	row := q.db.QueryRow(ctx, startFilterJob, id)
	var i FilterJob
	err := scanFilterJob(row, &i)
	return i, err
}

const completeFilterJob = `-- name: CompleteFilterJob :exec
UPDATE filter_jobs
SET status = 'completed',
    result_key = $2,
    output_name = $3,
    seed_count = $4,
    entity_count = $5,
    containment_edges = $6,
    aggregation_edges = $7,
    duration_ms = $8,
    error_message = NULL,
    finished_at = now(),
    updated_at = now()
WHERE id = $1`

type CompleteFilterJobParams struct {
	ID               int64       `json:"id"`
	ResultKey        pgtype.Text `json:"result_key"`
	OutputName       string      `json:"output_name"`
	SeedCount        int32       `json:"seed_count"`
	EntityCount      int32       `json:"entity_count"`
	ContainmentEdges int32       `json:"containment_edges"`
	AggregationEdges int32       `json:"aggregation_edges"`
	DurationMs       int64       `json:"duration_ms"`
}

func (q *Queries) CompleteFilterJob(ctx context.Context, arg CompleteFilterJobParams) error {
	_, err := q.db.Exec(ctx, completeFilterJob,
		arg.ID,
		arg.ResultKey,
		arg.OutputName,
		arg.SeedCount,
		arg.EntityCount,
		arg.ContainmentEdges,
		arg.AggregationEdges,
		arg.DurationMs,
	)
	return err
}

const failFilterJob = `-- name: FailFilterJob :exec
UPDATE filter_jobs
SET status = 'failed',
    error_message = $2,
    finished_at = now(),
    updated_at = now()
WHERE id = $1`

type FailFilterJobParams struct {
	ID           int64       `json:"id"`
	ErrorMessage pgtype.Text `json:"error_message"`
}

func (q *Queries) FailFilterJob(ctx context.Context, arg FailFilterJobParams) error {
	_, err := q.db.Exec(ctx, failFilterJob, arg.ID, arg.ErrorMessage)
	return err
}

const getStaleFilterJobs = `-- name: GetStaleFilterJobs :many
SELECT ` + filterJobColumns + `
FROM filter_jobs j
WHERE j.status = 'processing'
  AND j.updated_at < now() - ($1::bigint * interval '1 second')
  AND NOT EXISTS (
    SELECT 1 FROM app_locks l
    WHERE l.lock_key = 'filter_job:' || j.id::text
      AND l.expires_at > now()
  )
ORDER BY j.id`

// GetStaleFilterJobs returns processing jobs without a live lease that have
// not been touched for olderThanSeconds.
func (q *Queries) GetStaleFilterJobs(ctx context.Context, olderThanSeconds int64) ([]FilterJob, error) {
	rows, err := q.db.Query(ctx, getStaleFilterJobs, olderThanSeconds)
	if err != nil {
		return nil, err
	}
	return collectFilterJobs(rows)
}

const resetFilterJob = `-- name: ResetFilterJob :exec
UPDATE filter_jobs
SET status = 'pending',
    updated_at = now()
WHERE id = $1 AND status = 'processing'`

func (q *Queries) ResetFilterJob(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, resetFilterJob, id)
	return err
}
