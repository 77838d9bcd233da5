package routes

import (
	"net/http"
	"strconv"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"

	"github.com/labstack/echo/v4"
)

func GetModelsHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	var (
		models []db.Model
		err    error
	)
	if middleware.IsAdmin(user) || middleware.HasPermission(user, middleware.PermModelViewAll) {
		models, err = q.GetAllModels(ctx)
	} else {
		models, err = q.GetModelsForUser(ctx, user.UserID)
	}
	if err != nil {
		logger.Error("[API] Failed to list models", "user_id", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if models == nil {
		models = []db.Model{}
	}

	return c.JSON(http.StatusOK, models)
}

func GetModelHandler(c echo.Context) error {
	type getModelParams struct {
		ModelID int64 `param:"id" validate:"required,gt=0"`
	}

	data := new(getModelParams)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid model id"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid model id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	q := db.New(c.(*middleware.AppContext).App.DBConn)

	model, status, msg := modelForUser(ctx, q, user, data.ModelID)
	if status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	return c.JSON(http.StatusOK, model)
}

func parseID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
