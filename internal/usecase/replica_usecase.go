package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/event"
	"github.com/coursehub/payment-service/internal/domain/model"
	"github.com/coursehub/payment-service/internal/domain/repository"
)

// ReplicaService applies course and user events to the local replica tables. Every apply is
// safe to replay.
type ReplicaService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	cache      repository.CacheRepository
	logger     *zap.Logger
}

// NewReplicaService creates the service. cache may be nil; when set, cached revenue that a
// course deletion changes is dropped.
func NewReplicaService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *ReplicaService {
	return &ReplicaService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		cache:      cache,
		logger:     logger,
	}
}

// ApplyCourseCreated upserts the full course row; the last applied event wins.
func (s *ReplicaService) ApplyCourseCreated(ctx context.Context, evt event.CourseCreated) error {
	course := &model.Course{
		ID:           evt.CourseID,
		Title:        evt.Title,
		InstructorID: evt.InstructorID,
		Price:        evt.Price,
	}
	if evt.Currency != nil {
		currency := model.NormalizeCurrency(*evt.Currency)
		course.Currency = &currency
	}
	if err := s.courseRepo.Upsert(ctx, course); err != nil {
		return fmt.Errorf("apply %s for course %s: %w", evt.Topic(), evt.CourseID, err)
	}

	s.logger.Info("Course replica upserted",
		zap.String("course_id", evt.CourseID),
		zap.String("instructor_id", evt.InstructorID))
	return nil
}

// ApplyCourseUpdated changes only the fields present in the event. An update for a course that
// has not been created locally yet matches no row and is dropped.
func (s *ReplicaService) ApplyCourseUpdated(ctx context.Context, evt event.CourseUpdated) error {
	if evt.IsEmpty() {
		s.logger.Debug("Course update carries no changes", zap.String("course_id", evt.CourseID))
		return nil
	}

	rows, err := s.courseRepo.Update(ctx, evt.CourseID, repository.CourseChanges{
		Price: evt.NewPrice,
		Title: evt.NewTitle,
	})
	if err != nil {
		return fmt.Errorf("apply %s for course %s: %w", evt.Topic(), evt.CourseID, err)
	}
	if rows == 0 {
		s.logger.Warn("Course update matched no replica row; change lost",
			zap.String("course_id", evt.CourseID),
			zap.Bool("has_price", evt.NewPrice != nil),
			zap.Bool("has_title", evt.NewTitle != nil))
		return nil
	}

	s.logger.Info("Course replica updated", zap.String("course_id", evt.CourseID))
	return nil
}

// ApplyCourseDeleted removes the course row. Deleting an absent course succeeds.
func (s *ReplicaService) ApplyCourseDeleted(ctx context.Context, evt event.CourseDeleted) error {
	staleKeys := []string{courseTotalKey(evt.CourseID)}
	if s.cache != nil {
		course, err := s.courseRepo.GetByID(ctx, evt.CourseID)
		switch {
		case err == nil:
			// The course's payments drop out of its instructor's totals
			staleKeys = append(staleKeys,
				instructorTotalKey(course.InstructorID),
				instructorMonthlyKey(course.InstructorID))
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("apply %s for course %s: %w", evt.Topic(), evt.CourseID, err)
		}
	}

	rows, err := s.courseRepo.Delete(ctx, evt.CourseID)
	if err != nil {
		return fmt.Errorf("apply %s for course %s: %w", evt.Topic(), evt.CourseID, err)
	}
	s.invalidate(ctx, staleKeys)

	s.logger.Info("Course replica deleted",
		zap.String("course_id", evt.CourseID),
		zap.Int64("rows", rows))
	return nil
}

// ApplyUserRegistered upserts the user as a student. A redelivered registration resets an
// elevated role back to student until the next role update arrives.
func (s *ReplicaService) ApplyUserRegistered(ctx context.Context, evt event.UserRegistered) error {
	user := &model.User{
		ID:    evt.ID,
		Email: evt.Email,
		Role:  model.UserRoleStudent,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("apply %s for user %s: %w", evt.Topic(), evt.ID, err)
	}

	s.logger.Info("User replica upserted", zap.String("user_id", evt.ID))
	return nil
}

// ApplyUserRoleUpdated upserts the user with the new role.
func (s *ReplicaService) ApplyUserRoleUpdated(ctx context.Context, evt event.UserRoleUpdated) error {
	user := &model.User{
		ID:    evt.UserID,
		Email: evt.UserEmail,
		Role:  evt.NewRole,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("apply %s for user %s: %w", evt.Topic(), evt.UserID, err)
	}

	s.logger.Info("User role updated",
		zap.String("user_id", evt.UserID),
		zap.String("role", string(evt.NewRole)))
	return nil
}

// invalidate drops cached analytics. Failures only log; entries expire on their own.
func (s *ReplicaService) invalidate(ctx context.Context, keys []string) {
	if s.cache == nil {
		return
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate analytics cache", zap.String("key", key), zap.Error(err))
		}
	}
}
