package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// modelForUser loads a model and checks that user may access it. On failure
// it returns the HTTP status and message to respond with.
func modelForUser(ctx context.Context, q *db.Queries, user *middleware.AppUser, id int64) (db.Model, int, string) {
	model, err := q.GetModel(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model, http.StatusNotFound, "Model not found"
	}
	if err != nil {
		logger.Error("[API] Failed to get model", "model_id", id, "err", err)
		return model, http.StatusInternalServerError, "Internal server error"
	}
	if !middleware.CanAccessModel(user, model.UploadedBy) {
		// Hide models of other users.
		return model, http.StatusNotFound, "Model not found"
	}
	return model, 0, ""
}
