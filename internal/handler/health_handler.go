package handler

import (
	"net/http"

	"storefront-api/pkg/database"
	"storefront-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck reports service liveness, optionally pinging the database
func HealthCheck(c echo.Context) error {
	if c.QueryParam("check") == "db" {
		if err := database.Ping(); err != nil {
			logger.FromContext(c).Error("Database health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status": "unavailable",
				"db":     "down",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "db": "up"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
