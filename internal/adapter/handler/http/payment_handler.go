package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/middleware/auth"
	"github.com/coursehub/payment-service/internal/usecase"
	apperrors "github.com/coursehub/payment-service/pkg/errors"
)

const maxListLimit = 100

type CreateOrderRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type PaymentHandler struct {
	orderService *usecase.OrderService
	logger       *zap.Logger
}

func NewPaymentHandler(orderService *usecase.OrderService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /api/payments/create-order
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	requester, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.orderService.CreateOrder(c.Request().Context(), req.CourseID, requester)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// GetUserPayments handles GET /api/payments
func (h *PaymentHandler) GetUserPayments(c echo.Context) error {
	requester, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit < 1 || parsedLimit > maxListLimit {
			return apperrors.InvalidArgument("limit must be between 1 and 100", err)
		}
		limit = parsedLimit
	}

	payments, err := h.orderService.ListPayments(c.Request().Context(), requester, limit)
	if err != nil {
		return err
	}

	h.logger.Debug("Retrieved user payments",
		zap.String("user_id", requester.ID),
		zap.Int("payment_count", len(payments)),
	)

	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}
