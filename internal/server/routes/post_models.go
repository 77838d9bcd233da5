package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/internal/storage"
	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"
	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

var errUploadTooLarge = errors.New("upload too large")

// UploadModelHandler stores an IFC or IFCZIP upload from multipart/form-data.
// The file is parsed before it is stored, so only readable models are kept.
func UploadModelHandler(c echo.Context) error {
	type uploadModelBody struct {
		Name string `form:"name" validate:"omitempty,max=255"`
	}

	type uploadModelResponse struct {
		Message string    `json:"message"`
		Model   *db.Model `json:"model,omitempty"`
	}

	data := new(uploadModelBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadModelResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadModelResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, uploadModelResponse{
			Message: "Unauthorized",
		})
	}
	app := c.(*middleware.AppContext).App

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadModelResponse{
			Message: "Missing file",
		})
	}
	if !isModelFileName(upload.Filename) {
		return c.JSON(http.StatusBadRequest, uploadModelResponse{
			Message: "Only .ifc and .ifczip files are supported",
		})
	}

	content, err := readUpload(upload, app.MaxUploadBytes)
	if errors.Is(err, errUploadTooLarge) {
		return c.JSON(http.StatusRequestEntityTooLarge, uploadModelResponse{
			Message: "File too large",
		})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadModelResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()

	// Parsing dominates; hash while it runs.
	var (
		parsed *ifc.Model
		hash   string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parsed, err = ifc.Load(upload.Filename, content)
		return err
	})
	g.Go(func() error {
		var err error
		hash, err = util.ContentHash(content)
		return err
	})
	if err := g.Wait(); err != nil {
		if parsed == nil {
			logger.Info("[API] Rejected unreadable model", "file", upload.Filename, "err", err)
			return c.JSON(http.StatusUnprocessableEntity, uploadModelResponse{
				Message: fmt.Sprintf("Could not read model: %v", err),
			})
		}
		logger.Error("[API] Failed to hash upload", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}
	summary := filter.Inspect(parsed)

	conn := app.DBConn
	q := db.New(conn)

	existing, err := q.GetModelByHash(ctx, db.GetModelByHashParams{
		ContentHash: hash,
		UploadedBy:  user.UserID,
	})
	if err == nil {
		return c.JSON(http.StatusOK, uploadModelResponse{
			Message: "Model already uploaded",
			Model:   &existing,
		})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("[API] Failed to look up model hash", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename))
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		logger.Error("[API] Failed to begin transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	qtx := q.WithTx(tx)

	model, err := qtx.CreateModel(ctx, db.CreateModelParams{
		Name:         util.SanitizePostgresText(name),
		FileName:     util.SanitizePostgresText(filepath.Base(upload.Filename)),
		ContentHash:  hash,
		SizeBytes:    int64(len(content)),
		IfcSchema:    summary.Schema,
		Stories:      util.SanitizeAll(summary.Stories),
		ProductTypes: summary.ProductTypes,
		ProductCount: int32(summary.Products),
		EntityCount:  int32(summary.Entities),
		UploadedBy:   user.UserID,
	})
	if err != nil {
		logger.Error("[API] Failed to create model", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}

	objectID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}
	key := storage.SourceKey(model.ID, objectID, upload.Filename)
	if err := storage.PutFile(ctx, app.S3, key, content); err != nil {
		logger.Error("[API] Failed to store model", "model_id", model.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}

	if err := qtx.SetModelObjectKey(ctx, db.SetModelObjectKeyParams{ID: model.ID, ObjectKey: key}); err != nil {
		logger.Error("[API] Failed to store object key", "model_id", model.ID, "err", err)
		_ = storage.DeleteFile(ctx, app.S3, key)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}
	model.ObjectKey = key

	if err := tx.Commit(ctx); err != nil {
		_ = storage.DeleteFile(ctx, app.S3, key)
		return c.JSON(http.StatusInternalServerError, uploadModelResponse{
			Message: "Internal server error",
		})
	}

	metrics.ModelsUploadedTotal.Inc()
	logger.Info("[API] Model uploaded", "model_id", model.ID, "stories", len(summary.Stories), "entities", summary.Entities)

	return c.JSON(http.StatusCreated, uploadModelResponse{
		Message: "Model uploaded",
		Model:   &model,
	})
}

func isModelFileName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ifc", ".ifczip":
		return true
	}
	return false
}

// readUpload reads at most limit bytes. A limit <= 0 reads everything.
func readUpload(upload *multipart.FileHeader, limit int64) ([]byte, error) {
	src, err := upload.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if limit <= 0 {
		return io.ReadAll(src)
	}
	content, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, errUploadTooLarge
	}
	return content, nil
}
