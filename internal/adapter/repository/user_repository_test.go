package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/model"
	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
	"github.com/coursehub/payment-service/internal/testutil"
)

func TestUserRepository_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.User{ID: "U1", Email: "u1@example.com", Role: model.UserRoleStudent}))
	require.NoError(t, repo.Upsert(ctx, &model.User{ID: "U1", Email: "new@example.com", Role: model.UserRoleInstructor}))

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	user, err := repo.GetByID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, model.UserRoleInstructor, user.Role)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainRepo.ErrNotFound)
}
