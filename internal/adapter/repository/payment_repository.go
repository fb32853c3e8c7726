package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/coursehub/payment-service/internal/domain/model"
	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
)

const defaultListLimit = 50

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment ledger repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("user_id", payment.UserID),
			zap.String("course_id", payment.CourseID),
			zap.String("gateway_order_id", payment.GatewayOrderID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByGatewayOrderID retrieves a payment by the gateway's order id
func (r *paymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainRepo.ErrNotFound
		}
		r.logger.Error("Failed to get payment by gateway order ID",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// ListByUserID returns the user's payments, newest first
func (r *paymentRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// MarkCompleted records the gateway confirmation of a pending payment
func (r *paymentRepository) MarkCompleted(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) error {
	return r.transition(ctx, gatewayOrderID, map[string]interface{}{
		"status":             model.PaymentStatusCompleted,
		"gateway_payment_id": gatewayPaymentID,
		"gateway_signature":  signature,
	})
}

// MarkFailed moves a pending payment to failed
func (r *paymentRepository) MarkFailed(ctx context.Context, gatewayOrderID string) error {
	return r.transition(ctx, gatewayOrderID, map[string]interface{}{
		"status": model.PaymentStatusFailed,
	})
}

func (r *paymentRepository) transition(ctx context.Context, gatewayOrderID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("gateway_order_id = ? AND status = ?", gatewayOrderID, model.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update payment status",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.Any("status", updates["status"]),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrPaymentNotPending
	}

	return nil
}
