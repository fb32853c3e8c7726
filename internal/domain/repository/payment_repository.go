package repository

import (
	"context"

	"github.com/coursehub/payment-service/internal/domain/model"
)

// PaymentRepository is the payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*model.Payment, error)

	// MarkCompleted and MarkFailed move a pending payment to a terminal state. They return
	// ErrPaymentNotPending when the order is unknown or already terminal.
	MarkCompleted(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) error
	MarkFailed(ctx context.Context, gatewayOrderID string) error
}
