package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/queue"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	serverutil "github.com/OFFIS-RIT/ifcfilter/internal/server/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

type createFilterJobBody struct {
	Stories      []string `json:"stories" validate:"omitempty,max=256,dive,max=255"`
	AllStories   bool     `json:"all_stories"`
	Types        []string `json:"types" validate:"omitempty,max=256,dive,max=128"`
	Keywords     []string `json:"keywords" validate:"omitempty,max=64,dive,max=255"`
	Mode         string   `json:"mode" validate:"omitempty,max=64"`
	IncludeParts bool     `json:"include_parts"`
}

func (b createFilterJobBody) criteria() (filter.Criteria, error) {
	return filter.Criteria{
		Stories:      b.Stories,
		AllStories:   b.AllStories,
		Types:        b.Types,
		Keywords:     b.Keywords,
		Mode:         filter.Mode(b.Mode),
		IncludeParts: b.IncludeParts,
	}.Normalize()
}

// unknownStories returns the requested storey names the model does not have.
func unknownStories(c filter.Criteria, model db.Model) []string {
	if c.AllStories {
		return nil
	}
	var missing []string
	for _, s := range c.Stories {
		if !slices.Contains(model.Stories, s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// CreateFilterJobHandler stores a filter job for a model and enqueues it.
// The result is produced by the worker; clients poll GET /jobs/:id.
func CreateFilterJobHandler(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid model id"})
	}

	data := new(createFilterJobBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	criteria, err := data.criteria()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if !criteria.AllStories && len(criteria.Stories) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Select at least one story"})
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
	if missing := unknownStories(criteria, model); len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("%v: %v", filter.ErrNoMatchingStories, missing),
		})
	}

	encoded, err := json.Marshal(criteria)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	job, err := q.CreateFilterJob(ctx, db.CreateFilterJobParams{
		ModelID:    model.ID,
		Criteria:   encoded,
		OutputName: filter.OutputName(model.FileName, criteria),
		CreatedBy:  user.UserID,
	})
	if err != nil {
		logger.Error("[API] Failed to create filter job", "model_id", model.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	body, err := queue.FilterJobMsg{Message: "filter", JobID: job.ID, ModelID: model.ID}.Encode()
	if err == nil {
		err = queue.PublishFIFO(ctx, app.Queue, queue.FilterQueue, body)
	}
	if err != nil {
		logger.Error("[API] Failed to enqueue filter job", "job_id", job.ID, "err", err)
		if ferr := q.FailFilterJob(ctx, db.FailFilterJobParams{
			ID:           job.ID,
			ErrorMessage: pgtype.Text{String: "could not enqueue job", Valid: true},
		}); ferr != nil {
			err = errors.Join(err, ferr)
			logger.Error("[API] Failed to mark job failed", "job_id", job.ID, "err", err)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("[API] Filter job queued", "job_id", job.ID, "model_id", model.ID, "mode", criteria.Mode)
	return c.JSON(http.StatusAccepted, serverutil.NewJobView(job, ""))
}
