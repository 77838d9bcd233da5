package db

import (
	"context"
)

const modelColumns = `id, name, file_name, object_key, content_hash, size_bytes, ifc_schema, stories, product_types, product_count, entity_count, uploaded_by, created_at, updated_at`

func scanModel(row interface{ Scan(...any) error }, i *Model) error {
	return row.Scan(
		&i.ID,
		&i.Name,
		&i.FileName,
		&i.ObjectKey,
		&i.ContentHash,
		&i.SizeBytes,
		&i.IfcSchema,
		&i.Stories,
		&i.ProductTypes,
		&i.ProductCount,
		&i.EntityCount,
		&i.UploadedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

const createModel = `-- name: CreateModel :one
INSERT INTO models (name, file_name, object_key, content_hash, size_bytes, ifc_schema, stories, product_types, product_count, entity_count, uploaded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + modelColumns

type CreateModelParams struct {
	Name         string   `json:"name"`
	FileName     string   `json:"file_name"`
	ObjectKey    string   `json:"object_key"`
	ContentHash  string   `json:"content_hash"`
	SizeBytes    int64    `json:"size_bytes"`
	IfcSchema    string   `json:"ifc_schema"`
	Stories      []string `json:"stories"`
	ProductTypes []string `json:"product_types"`
	ProductCount int32    `json:"product_count"`
	EntityCount  int32    `json:"entity_count"`
	UploadedBy   int64    `json:"uploaded_by"`
}

func (q *Queries) CreateModel(ctx context.Context, arg CreateModelParams) (Model, error) {
	row := q.db.QueryRow(ctx, createModel,
		arg.Name,
		arg.FileName,
		arg.ObjectKey,
		arg.ContentHash,
		arg.SizeBytes,
		arg.IfcSchema,
		arg.Stories,
		arg.ProductTypes,
		arg.ProductCount,
		arg.EntityCount,
		arg.UploadedBy,
	)
	var i Model
	err := scanModel(row, &i)
	return i, err
}

const getModel = `-- name: GetModel :one
SELECT ` + modelColumns + `
FROM models
WHERE id = $1`

func (q *Queries) GetModel(ctx context.Context, id int64) (Model, error) {
	row := q.db.QueryRow(ctx, getModel, id)
	var i Model
	err := scanModel(row, &i)
	return i, err
}

const getModelByHash = `-- name: GetModelByHash :one
SELECT ` + modelColumns + `
FROM models
WHERE content_hash = $1 AND uploaded_by = $2
ORDER BY id
LIMIT 1`

type GetModelByHashParams struct {
	ContentHash string `json:"content_hash"`
	UploadedBy  int64  `json:"uploaded_by"`
}

func (q *Queries) GetModelByHash(ctx context.Context, arg GetModelByHashParams) (Model, error) {
	row := q.db.QueryRow(ctx, getModelByHash, arg.ContentHash, arg.UploadedBy)
	var i Model
	err := scanModel(row, &i)
	return i, err
}

const getAllModels = `-- name: GetAllModels :many
SELECT ` + modelColumns + `
FROM models
ORDER BY created_at DESC, id DESC`

func (q *Queries) GetAllModels(ctx context.Context) ([]Model, error) {
	rows, err := q.db.Query(ctx, getAllModels)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Model{}
	for rows.Next() {
		var i Model
		if err := scanModel(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getModelsForUser = `-- name: GetModelsForUser :many
SELECT ` + modelColumns + `
FROM models
WHERE uploaded_by = $1
ORDER BY created_at DESC, id DESC`

func (q *Queries) GetModelsForUser(ctx context.Context, uploadedBy int64) ([]Model, error) {
	rows, err := q.db.Query(ctx, getModelsForUser, uploadedBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Model{}
	for rows.Next() {
		var i Model
		if err := scanModel(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteModel = `-- name: DeleteModel :exec
DELETE FROM models
WHERE id = $1`

func (q *Queries) DeleteModel(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteModel, id)
	return err
}

const setModelObjectKey = `-- name: SetModelObjectKey :exec
UPDATE models
SET object_key = $2,
    updated_at = now()
WHERE id = $1`

type SetModelObjectKeyParams struct {
	ID        int64  `json:"id"`
	ObjectKey string `json:"object_key"`
}

func (q *Queries) SetModelObjectKey(ctx context.Context, arg SetModelObjectKeyParams) error {
	_, err := q.db.Exec(ctx, setModelObjectKey, arg.ID, arg.ObjectKey)
	return err
}
