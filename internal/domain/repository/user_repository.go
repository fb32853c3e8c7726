package repository

import (
	"context"

	"github.com/coursehub/payment-service/internal/domain/model"
)

// UserRepository reads and writes the user replica.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	// Upsert inserts the user or overwrites email and role of the existing row.
	Upsert(ctx context.Context, user *model.User) error
}
