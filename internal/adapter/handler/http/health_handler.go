package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether one dependency is usable
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthHandler struct {
	checks []HealthCheck
	logger *zap.Logger
}

func NewHealthHandler(logger *zap.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health handles GET /api/payments/health
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	var failures []string
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warn("Health check failed",
				zap.String("dependency", check.Name),
				zap.Error(err))
			failures = append(failures, check.Name+": "+err.Error())
		}
	}

	if len(failures) > 0 {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "DOWN",
			Message: strings.Join(failures, "; "),
		})
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "UP",
		Message: "payment service is ready",
	})
}
