package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	serverutil "github.com/OFFIS-RIT/ifcfilter/internal/server/util"
	"github.com/OFFIS-RIT/ifcfilter/internal/storage"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// GetJobHandler returns a filter job. Completed jobs carry a presigned link
// to the filtered model.
func GetJobHandler(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid job id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	app := c.(*middleware.AppContext).App

	ctx := c.Request().Context()
	q := db.New(app.DBConn)

	job, err := q.GetFilterJob(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
	}
	if err != nil {
		logger.Error("[API] Failed to get filter job", "job_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if _, status, _ := modelForUser(ctx, q, user, job.ModelID); status != 0 {
		if status == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Job not found"})
		}
		return c.JSON(status, map[string]string{"error": "Internal server error"})
	}

	var link string
	if serverutil.HasResult(job) {
		link, err = storage.GenerateDownloadLink(ctx, app.S3, job.ResultKey.String, job.OutputName)
		if err != nil {
			logger.Warn("[API] Failed to sign result link", "job_id", job.ID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, serverutil.NewJobView(job, link))
}

func GetModelJobsHandler(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid model id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	q := db.New(c.(*middleware.AppContext).App.DBConn)

	model, status, msg := modelForUser(ctx, q, user, id)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	jobs, err := q.GetFilterJobsForModel(ctx, model.ID)
	if err != nil {
		logger.Error("[API] Failed to list filter jobs", "model_id", model.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	views := make([]serverutil.JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, serverutil.NewJobView(job, ""))
	}
	return c.JSON(http.StatusOK, views)
}
