package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/coursehub/payment-service/internal/domain/model"
	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
)

type analyticsRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalyticsRepository creates a new revenue analytics repository
func NewAnalyticsRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AnalyticsRepository {
	return &analyticsRepository{
		db:     db,
		logger: logger,
	}
}

// completedByInstructor joins the ledger to the course replica. Payments whose course replica
// was deleted drop out of instructor totals.
func (r *analyticsRepository) completedByInstructor(ctx context.Context, instructorID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments").
		Joins("JOIN courses ON courses.id = payments.course_id").
		Where("courses.instructor_id = ? AND payments.status = ?", instructorID, model.PaymentStatusCompleted)
}

// TotalRevenueByInstructor sums completed payment amounts over the instructor's courses
func (r *analyticsRepository) TotalRevenueByInstructor(ctx context.Context, instructorID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal

	err := r.completedByInstructor(ctx, instructorID).
		Pluck("payments.amount", &amounts).Error
	if err != nil {
		r.logger.Error("Failed to sum instructor revenue",
			zap.String("instructor_id", instructorID),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to sum instructor revenue: %w", err)
	}

	return sumAmounts(amounts), nil
}

// RevenuePointsByInstructor returns completed payments created at or after since, oldest first
func (r *analyticsRepository) RevenuePointsByInstructor(ctx context.Context, instructorID string, since time.Time) ([]model.RevenuePoint, error) {
	var points []model.RevenuePoint

	err := r.completedByInstructor(ctx, instructorID).
		Where("payments.created_at >= ?", since).
		Select("payments.amount AS amount, payments.created_at AS created_at").
		Order("payments.created_at ASC").
		Scan(&points).Error
	if err != nil {
		r.logger.Error("Failed to load instructor revenue points",
			zap.String("instructor_id", instructorID),
			zap.Time("since", since),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load revenue points: %w", err)
	}

	return points, nil
}

// TotalRevenueByCourse sums completed payment amounts for one course
func (r *analyticsRepository) TotalRevenueByCourse(ctx context.Context, courseID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal

	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("course_id = ? AND status = ?", courseID, model.PaymentStatusCompleted).
		Pluck("amount", &amounts).Error
	if err != nil {
		r.logger.Error("Failed to sum course revenue",
			zap.String("course_id", courseID),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to sum course revenue: %w", err)
	}

	return sumAmounts(amounts), nil
}

// sumAmounts adds in decimal so the total is exact whatever numeric type the driver returns.
// SQL SUM over a NUMERIC column is a float on SQLite.
func sumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
