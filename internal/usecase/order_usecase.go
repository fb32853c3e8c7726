package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/entity"
	"github.com/coursehub/payment-service/internal/domain/model"
	"github.com/coursehub/payment-service/internal/domain/provider"
	"github.com/coursehub/payment-service/internal/domain/repository"
	apperrors "github.com/coursehub/payment-service/pkg/errors"
)

const (
	receiptPrefix = "receipt_order_"
	// Razorpay rejects receipts longer than 40 characters
	maxReceiptLength = 40
)

var minorUnitFactor = decimal.NewFromInt(100)

// CreateOrderResult is returned to the client to open the gateway checkout
type CreateOrderResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderService turns a checkout intent into a gateway order and a pending ledger row
type OrderService struct {
	courseRepo  repository.CourseRepository
	paymentRepo repository.PaymentRepository
	gateway     provider.GatewayHolder
	logger      *zap.Logger
}

func NewOrderService(
	courseRepo repository.CourseRepository,
	paymentRepo repository.PaymentRepository,
	gateway provider.GatewayHolder,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		courseRepo:  courseRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// CreateOrder creates a gateway order for the course price and records it as pending.
func (s *OrderService) CreateOrder(ctx context.Context, courseID string, requester *entity.Requester) (*CreateOrderResult, error) {
	if requester == nil || requester.ID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if courseID == "" {
		return nil, apperrors.InvalidArgument("courseId is required", nil)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("course not found or has no price")
		}
		return nil, apperrors.Wrap(err, "failed to load course")
	}
	if !course.IsPriced() {
		s.logger.Info("Rejected order for unpriced course",
			zap.String("course_id", courseID),
			zap.String("user_id", requester.ID))
		return nil, apperrors.NotFound("course not found or has no price")
	}

	price := course.Price.Decimal
	amount := ToMinorUnits(price)
	currency := course.CurrencyOrDefault()
	receipt := NewReceipt()

	client, err := s.gateway.Instance()
	if err != nil {
		return nil, apperrors.Upstream("payment gateway unavailable", err)
	}

	order, err := client.CreateOrder(ctx, &provider.CreateOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"userId":   requester.ID,
			"courseId": courseID,
		},
	})
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.String("provider", client.Name()),
			zap.String("course_id", courseID),
			zap.String("user_id", requester.ID),
			zap.String("receipt", receipt),
			zap.Error(err))
		return nil, apperrors.Upstream("failed to create payment order", err)
	}

	paymentCurrency := order.Currency
	if paymentCurrency == "" {
		paymentCurrency = currency
	}

	payment := &model.Payment{
		UserID:               requester.ID,
		CourseID:             courseID,
		CoursePriceAtPayment: price,
		Amount:               price,
		Currency:             paymentCurrency,
		Status:               model.PaymentStatusPending,
		Receipt:              receipt,
		GatewayOrderID:       order.ID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// The remote order exists without a ledger row; nothing reconciles it
		s.logger.Error("Orphaned gateway order: payment record not saved",
			zap.String("provider", client.Name()),
			zap.String("gateway_order_id", order.ID),
			zap.String("course_id", courseID),
			zap.String("user_id", requester.ID),
			zap.Int64("amount", amount),
			zap.Error(err))
		return nil, apperrors.Wrap(err, "failed to record payment")
	}

	s.logger.Info("Payment order created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("gateway_order_id", order.ID),
		zap.String("course_id", courseID),
		zap.String("user_id", requester.ID),
		zap.Int64("amount", amount),
		zap.String("currency", paymentCurrency))

	return &CreateOrderResult{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: paymentCurrency,
	}, nil
}

// ListPayments returns the requester's payments, newest first
func (s *OrderService) ListPayments(ctx context.Context, requester *entity.Requester, limit int) ([]*model.Payment, error) {
	if requester == nil || requester.ID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}

	payments, err := s.paymentRepo.ListByUserID(ctx, requester.ID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payments")
	}
	return payments, nil
}

// ToMinorUnits converts a major-unit price to the gateway's smallest unit, rounding half away
// from zero.
func ToMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitFactor).Round(0).IntPart()
}

// NewReceipt returns a fresh internal receipt tag
func NewReceipt() string {
	receipt := receiptPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(receipt) > maxReceiptLength {
		receipt = receipt[:maxReceiptLength]
	}
	return receipt
}
