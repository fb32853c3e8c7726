package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/coursehub/payment-service/internal/domain/model"
	"github.com/coursehub/payment-service/internal/domain/provider"
)

// MockGatewayClient is a mock implementation of provider.GatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.GatewayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.GatewayOrder), args.Error(1)
}

func (m *MockGatewayClient) Name() string {
	return "mock"
}

// staticHolder hands out a fixed client
type staticHolder struct {
	client provider.GatewayClient
	err    error
}

func (h staticHolder) Instance() (provider.GatewayClient, error) {
	return h.client, h.err
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Payment, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkCompleted(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) error {
	return m.Called(ctx, gatewayOrderID, gatewayPaymentID, signature).Error(0)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, gatewayOrderID string) error {
	return m.Called(ctx, gatewayOrderID).Error(0)
}

// MockCacheRepository is a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
