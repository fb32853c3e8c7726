package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/entity"
	"github.com/coursehub/payment-service/internal/domain/model"
	"github.com/coursehub/payment-service/internal/domain/repository"
	apperrors "github.com/coursehub/payment-service/pkg/errors"
)

// trailingMonths is the window of the monthly revenue report, current month included.
const trailingMonths = 6

// AnalyticsService answers revenue reports over completed payments. It never writes.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	cache         repository.CacheRepository
	cacheTTL      time.Duration
	logger        *zap.Logger

	now func() time.Time
}

// NewAnalyticsService creates the service. cache may be nil.
func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// AuthorizeInstructor checks that the requester may read instructor revenue
func (s *AnalyticsService) AuthorizeInstructor(ctx context.Context, requester *entity.Requester) (*model.User, error) {
	if requester == nil || requester.ID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}

	user, err := s.userRepo.GetByID(ctx, requester.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Forbidden("revenue analytics require an instructor account")
		}
		return nil, apperrors.Wrap(err, "failed to load user")
	}
	if !user.Role.CanViewRevenue() {
		return nil, apperrors.Forbidden("revenue analytics require an instructor account")
	}
	return user, nil
}

// AuthorizeCourse checks that the requester is the course instructor or an admin
func (s *AnalyticsService) AuthorizeCourse(ctx context.Context, requester *entity.Requester, courseID string) error {
	user, err := s.AuthorizeInstructor(ctx, requester)
	if err != nil {
		return err
	}
	if user.Role == model.UserRoleAdmin {
		return nil
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("course not found")
		}
		return apperrors.Wrap(err, "failed to load course")
	}
	if course.InstructorID != user.ID {
		return apperrors.Forbidden("course belongs to another instructor")
	}
	return nil
}

// TotalRevenueByInstructor sums completed payments over the instructor's courses
func (s *AnalyticsService) TotalRevenueByInstructor(ctx context.Context, instructorID string) (decimal.Decimal, error) {
	key := instructorTotalKey(instructorID)
	if cached, ok := s.cachedDecimal(ctx, key); ok {
		return cached, nil
	}

	total, err := s.analyticsRepo.TotalRevenueByInstructor(ctx, instructorID)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(err, "failed to compute instructor revenue")
	}

	s.store(ctx, key, total.String())
	return total, nil
}

// MonthlyRevenueByInstructor returns completed revenue per calendar month (UTC) for the
// current month and the five before it. Months without revenue are omitted.
func (s *AnalyticsService) MonthlyRevenueByInstructor(ctx context.Context, instructorID string) ([]model.MonthlyRevenue, error) {
	key := instructorMonthlyKey(instructorID)
	if raw, ok := s.lookup(ctx, key); ok {
		var cached []model.MonthlyRevenue
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	since := windowStart(s.now())
	points, err := s.analyticsRepo.RevenuePointsByInstructor(ctx, instructorID, since)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compute monthly revenue")
	}

	months := bucketByMonth(points)
	if raw, err := json.Marshal(months); err == nil {
		s.store(ctx, key, string(raw))
	}
	return months, nil
}

// CourseRevenue sums completed payments for one course
func (s *AnalyticsService) CourseRevenue(ctx context.Context, courseID string) (decimal.Decimal, error) {
	key := courseTotalKey(courseID)
	if cached, ok := s.cachedDecimal(ctx, key); ok {
		return cached, nil
	}

	total, err := s.analyticsRepo.TotalRevenueByCourse(ctx, courseID)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(err, "failed to compute course revenue")
	}

	s.store(ctx, key, total.String())
	return total, nil
}

// windowStart is the first instant of the month five months before now, in UTC.
func instructorTotalKey(instructorID string) string {
	return "analytics:instructor:" + instructorID + ":total"
}

func instructorMonthlyKey(instructorID string) string {
	return "analytics:instructor:" + instructorID + ":monthly"
}

func courseTotalKey(courseID string) string {
	return "analytics:course:" + courseID + ":total"
}

func windowStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-(trailingMonths-1), 1, 0, 0, 0, 0, time.UTC)
}

func bucketByMonth(points []model.RevenuePoint) []model.MonthlyRevenue {
	buckets := make(map[time.Time]decimal.Decimal)
	for _, p := range points {
		at := p.CreatedAt.UTC()
		month := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
		buckets[month] = buckets[month].Add(p.Amount)
	}

	months := make([]model.MonthlyRevenue, 0, len(buckets))
	for month, revenue := range buckets {
		months = append(months, model.MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

func (s *AnalyticsService) cachedDecimal(ctx context.Context, key string) (decimal.Decimal, bool) {
	raw, ok := s.lookup(ctx, key)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		s.logger.Warn("Discarding malformed cached value", zap.String("key", key), zap.Error(err))
		return decimal.Zero, false
	}
	return d, true
}

// lookup reads through the cache; any cache failure falls back to the database.
func (s *AnalyticsService) lookup(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

func (s *AnalyticsService) store(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
