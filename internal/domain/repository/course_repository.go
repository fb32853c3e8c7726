package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coursehub/payment-service/internal/domain/model"
)

// CourseChanges is a partial course update; nil fields are left untouched.
type CourseChanges struct {
	Price *decimal.Decimal
	Title *string
}

// CourseRepository reads and writes the course replica.
type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Course, error)
	Upsert(ctx context.Context, course *model.Course) error
	// Update applies changes to an existing row and returns the number of rows affected.
	Update(ctx context.Context, id string, changes CourseChanges) (int64, error)
	// Delete returns the number of rows removed; zero is not an error.
	Delete(ctx context.Context, id string) (int64, error)
}
