package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/middleware/auth"
	"github.com/coursehub/payment-service/internal/usecase"
)

type AnalyticsHandler struct {
	analyticsService *usecase.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *usecase.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetRevenue handles GET /api/payments/analytics/revenue
func (h *AnalyticsHandler) GetRevenue(c echo.Context) error {
	requester, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.analyticsService.AuthorizeInstructor(ctx, requester); err != nil {
		return err
	}

	total, err := h.analyticsService.TotalRevenueByInstructor(ctx, requester.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"instructorId": requester.ID,
		"totalRevenue": total.StringFixed(2),
	})
}

// GetMonthlyRevenue handles GET /api/payments/analytics/revenue/monthly
func (h *AnalyticsHandler) GetMonthlyRevenue(c echo.Context) error {
	requester, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.analyticsService.AuthorizeInstructor(ctx, requester); err != nil {
		return err
	}

	months, err := h.analyticsService.MonthlyRevenueByInstructor(ctx, requester.ID)
	if err != nil {
		return err
	}

	type monthlyRevenue struct {
		Month   string `json:"month"`
		Revenue string `json:"revenue"`
	}
	resp := make([]monthlyRevenue, 0, len(months))
	for _, m := range months {
		resp = append(resp, monthlyRevenue{
			Month:   m.Month.Format("2006-01"),
			Revenue: m.Revenue.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"instructorId": requester.ID,
		"months":       resp,
	})
}

// GetCourseRevenue handles GET /api/payments/analytics/courses/:courseId/revenue
func (h *AnalyticsHandler) GetCourseRevenue(c echo.Context) error {
	requester, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	courseID := c.Param("courseId")

	if err := h.analyticsService.AuthorizeCourse(ctx, requester, courseID); err != nil {
		return err
	}

	total, err := h.analyticsService.CourseRevenue(ctx, courseID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"courseId":     courseID,
		"totalRevenue": total.StringFixed(2),
	})
}
