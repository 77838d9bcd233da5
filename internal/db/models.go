package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Model struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	FileName     string             `json:"file_name"`
	ObjectKey    string             `json:"-"`
	ContentHash  string             `json:"content_hash"`
	SizeBytes    int64              `json:"size_bytes"`
	IfcSchema    string             `json:"ifc_schema"`
	Stories      []string           `json:"stories"`
	ProductTypes []string           `json:"product_types"`
	ProductCount int32              `json:"product_count"`
	EntityCount  int32              `json:"entity_count"`
	UploadedBy   int64              `json:"uploaded_by"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type FilterJob struct {
	ID               int64              `json:"id"`
	ModelID          int64              `json:"model_id"`
	Status           string             `json:"status"`
	Criteria         []byte             `json:"-"`
	OutputName       string             `json:"output_name"`
	ResultKey        pgtype.Text        `json:"-"`
	SeedCount        int32              `json:"seed_count"`
	EntityCount      int32              `json:"entity_count"`
	ContainmentEdges int32              `json:"containment_edges"`
	AggregationEdges int32              `json:"aggregation_edges"`
	DurationMs       int64              `json:"duration_ms"`
	ErrorMessage     pgtype.Text        `json:"error_message"`
	Attempts         int32              `json:"attempts"`
	CreatedBy        int64              `json:"created_by"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
	StartedAt        pgtype.Timestamptz `json:"started_at"`
	FinishedAt       pgtype.Timestamptz `json:"finished_at"`
}
