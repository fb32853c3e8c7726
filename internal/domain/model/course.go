package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Course is the local replica of a course owned by the course service. Only the course
// event appliers write to it; it may be stale or missing.
type Course struct {
	ID           string              `gorm:"primaryKey;size:64" json:"id"`
	Title        string              `gorm:"size:255;not null" json:"title"`
	InstructorID string              `gorm:"size:64;not null;index" json:"instructor_id"`
	Price        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	Currency     *string             `gorm:"size:3" json:"currency,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// IsPriced reports whether the course can be sold: the price is known and positive.
func (c *Course) IsPriced() bool {
	return c.Price.Valid && c.Price.Decimal.IsPositive()
}

// CurrencyOrDefault returns the replicated currency as an upper-case ISO code, or INR when it
// was never set.
func (c *Course) CurrencyOrDefault() string {
	if c.Currency == nil || strings.TrimSpace(*c.Currency) == "" {
		return DefaultCurrency
	}
	return NormalizeCurrency(*c.Currency)
}

// NormalizeCurrency upper-cases an ISO 4217 code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
