package util

import (
	"encoding/json"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
)

// JobProgressFromStatus maps a job row status to what clients display.
// Pending jobs that were already attempted are shown as retrying.
func JobProgressFromStatus(status string, attempts int32) string {
	switch status {
	case db.JobStatusCompleted:
		return "done"
	case db.JobStatusFailed:
		return "failed"
	case db.JobStatusProcessing:
		return "running"
	case db.JobStatusPending:
		if attempts > 0 {
			return "retrying"
		}
		return "queued"
	default:
		return "unknown"
	}
}

// JobView is the API representation of a filter job.
type JobView struct {
	ID               int64           `json:"id"`
	ModelID          int64           `json:"model_id"`
	Status           string          `json:"status"`
	Progress         string          `json:"progress"`
	Criteria         json.RawMessage `json:"criteria"`
	OutputName       string          `json:"output_name"`
	SeedCount        int32           `json:"seed_count"`
	EntityCount      int32           `json:"entity_count"`
	ContainmentEdges int32           `json:"containment_edges"`
	AggregationEdges int32           `json:"aggregation_edges"`
	DurationMs       int64           `json:"duration_ms"`
	Error            string          `json:"error,omitempty"`
	DownloadURL      string          `json:"download_url,omitempty"`
	CreatedAt        *time.Time      `json:"created_at,omitempty"`
	FinishedAt       *time.Time      `json:"finished_at,omitempty"`
}

func NewJobView(job db.FilterJob, downloadURL string) JobView {
	v := JobView{
		ID:               job.ID,
		ModelID:          job.ModelID,
		Status:           job.Status,
		Progress:         JobProgressFromStatus(job.Status, job.Attempts),
		Criteria:         json.RawMessage(job.Criteria),
		OutputName:       job.OutputName,
		SeedCount:        job.SeedCount,
		EntityCount:      job.EntityCount,
		ContainmentEdges: job.ContainmentEdges,
		AggregationEdges: job.AggregationEdges,
		DurationMs:       job.DurationMs,
		DownloadURL:      downloadURL,
	}
	if len(v.Criteria) == 0 {
		v.Criteria = json.RawMessage("{}")
	}
	if job.ErrorMessage.Valid {
		v.Error = job.ErrorMessage.String
	}
	if job.CreatedAt.Valid {
		t := job.CreatedAt.Time
		v.CreatedAt = &t
	}
	if job.FinishedAt.Valid {
		t := job.FinishedAt.Time
		v.FinishedAt = &t
	}
	return v
}

// HasResult reports whether a download link can be generated for job.
func HasResult(job db.FilterJob) bool {
	return job.Status == db.JobStatusCompleted && job.ResultKey.Valid && job.ResultKey.String != ""
}
