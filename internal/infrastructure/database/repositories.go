package database

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/coursehub/payment-service/internal/adapter/repository"
	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment   domainRepo.PaymentRepository
	Course    domainRepo.CourseRepository
	User      domainRepo.UserRepository
	Analytics domainRepo.AnalyticsRepository
	// Cache is nil when Redis is not configured.
	Cache domainRepo.CacheRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	repos := &Repositories{
		Payment:   repository.NewPaymentRepository(db, logger),
		Course:    repository.NewCourseRepository(db, logger),
		User:      repository.NewUserRepository(db, logger),
		Analytics: repository.NewAnalyticsRepository(db, logger),
	}
	if redisClient != nil {
		repos.Cache = repository.NewRedisCacheRepository(redisClient, logger)
	}
	return repos
}
