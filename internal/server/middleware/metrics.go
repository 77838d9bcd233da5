package middleware

import (
	"strconv"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and durations. The route
// template is used as path label so ids do not blow up the series count.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request().Method
		metrics.HttpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		metrics.HttpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
		return nil
	}
}
