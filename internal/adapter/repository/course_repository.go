package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursehub/payment-service/internal/domain/model"
	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
)

type courseRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course replica repository
func NewCourseRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CourseRepository {
	return &courseRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a course replica by its course-service id
func (r *courseRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainRepo.ErrNotFound
		}
		r.logger.Error("Failed to get course",
			zap.String("course_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return &course, nil
}

// Upsert inserts the course or overwrites the replicated fields of the existing row
func (r *courseRepository) Upsert(ctx context.Context, course *model.Course) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "instructor_id", "price", "currency", "updated_at"}),
		}).
		Create(course).Error
	if err != nil {
		r.logger.Error("Failed to upsert course",
			zap.String("course_id", course.ID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert course: %w", err)
	}

	return nil
}

// Update applies a partial update; a missing row is not an error and yields zero rows affected
func (r *courseRepository) Update(ctx context.Context, id string, changes domainRepo.CourseChanges) (int64, error) {
	updates := make(map[string]interface{}, 2)
	if changes.Price != nil {
		updates["price"] = *changes.Price
	}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update course",
			zap.String("course_id", id),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to update course: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Delete removes the course replica row
func (r *courseRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if result.Error != nil {
		r.logger.Error("Failed to delete course",
			zap.String("course_id", id),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to delete course: %w", result.Error)
	}

	return result.RowsAffected, nil
}
