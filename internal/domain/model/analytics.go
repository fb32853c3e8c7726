package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenue is the completed revenue of one calendar month (UTC).
type MonthlyRevenue struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenuePoint is a single completed payment used for time bucketing.
type RevenuePoint struct {
	Amount    decimal.Decimal
	CreatedAt time.Time
}
