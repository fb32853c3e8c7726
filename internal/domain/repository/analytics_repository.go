package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coursehub/payment-service/internal/domain/model"
)

// AnalyticsRepository runs read-only revenue queries over completed payments.
type AnalyticsRepository interface {
	TotalRevenueByInstructor(ctx context.Context, instructorID string) (decimal.Decimal, error)
	RevenuePointsByInstructor(ctx context.Context, instructorID string, since time.Time) ([]model.RevenuePoint, error)
	TotalRevenueByCourse(ctx context.Context, courseID string) (decimal.Decimal, error)
}
