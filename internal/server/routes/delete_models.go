package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/internal/storage"
	"github.com/OFFIS-RIT/ifcfilter/pkg/leaselock"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DeleteModelHandler removes a model, its jobs and every stored object below
// the model prefix. Objects go first so a failed delete can be retried.
func DeleteModelHandler(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid model id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	app := c.(*middleware.AppContext).App

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	model, status, msg := modelForUser(ctx, q, user, id)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	locks := leaselock.New(app.DBConn)
	opts := leaselock.Options{TTL: leaselock.JobOptions(model.ID).TTL}
	err := locks.WithLease(ctx, leaselock.ModelKey(model.ID), opts, func(ctx context.Context) error {
		if err := storage.DeleteFolder(ctx, app.S3, storage.ModelPrefix(model.ID)); err != nil {
			return err
		}
		return q.DeleteModel(ctx, model.ID)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Model is being deleted"})
	}
	if err != nil {
		logger.Error("[API] Failed to delete model", "model_id", model.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("[API] Model deleted", "model_id", model.ID, "user_id", user.UserID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Model deleted"})
}
