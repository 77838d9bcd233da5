package server

import (
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Model routes
	apiRoutes.GET("/models", routes.GetModelsHandler, middleware.RequireAnyPermission(middleware.PermModelView, middleware.PermModelViewAll))
	apiRoutes.POST("/models", routes.UploadModelHandler, middleware.RequirePermission(middleware.PermModelUpload))
	apiRoutes.GET("/models/:id", routes.GetModelHandler, middleware.RequireAnyPermission(middleware.PermModelView, middleware.PermModelViewAll))
	apiRoutes.DELETE("/models/:id", routes.DeleteModelHandler, middleware.RequirePermission(middleware.PermModelDelete))

	// Filter job routes
	apiRoutes.POST("/models/:id/filters", routes.CreateFilterJobHandler, middleware.RequirePermission(middleware.PermModelFilter))
	apiRoutes.GET("/models/:id/jobs", routes.GetModelJobsHandler, middleware.RequireAnyPermission(middleware.PermModelView, middleware.PermModelViewAll))
	apiRoutes.GET("/jobs/:id", routes.GetJobHandler, middleware.RequireAnyPermission(middleware.PermModelView, middleware.PermModelViewAll))
}
