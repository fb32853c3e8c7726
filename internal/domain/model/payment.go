package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is the ledger state of a payment order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

const DefaultCurrency = "INR"

// Payment is one order attempt against the gateway. Rows are never deleted.
type Payment struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               string          `gorm:"size:64;not null;index" json:"user_id"`
	CourseID             string          `gorm:"size:64;not null;index" json:"course_id"`
	CoursePriceAtPayment decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"course_price_at_payment"`
	Amount               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency             string          `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status               PaymentStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Receipt              string          `gorm:"size:40;not null" json:"receipt"`
	GatewayOrderID       string          `gorm:"size:100;not null;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID     *string         `gorm:"size:100;uniqueIndex" json:"gateway_payment_id,omitempty"`
	GatewaySignature     *string         `gorm:"size:255" json:"-"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	return nil
}
