package razorpay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/provider"
)

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	args := m.Called(data, extraHeaders)
	if body := args.Get(0); body != nil {
		return body.(map[string]interface{}), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRazorpayProvider_CreateOrder(t *testing.T) {
	orders := new(mockOrders)
	p := &RazorpayProvider{orders: orders, logger: zap.NewNop()}

	orders.On("Create", map[string]interface{}{
		"amount":   int64(49900),
		"currency": "INR",
		"receipt":  "receipt_order_abc",
		"notes":    map[string]interface{}{"userId": "U1", "courseId": "C1"},
	}, map[string]string(nil)).Return(map[string]interface{}{
		"id":       "order_Rzp123",
		"entity":   "order",
		"amount":   float64(49900),
		"currency": "INR",
		"receipt":  "receipt_order_abc",
		"status":   "created",
	}, nil)

	order, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "receipt_order_abc",
		Notes:    map[string]string{"userId": "U1", "courseId": "C1"},
	})
	require.NoError(t, err)
	assert.Equal(t, &provider.GatewayOrder{ID: "order_Rzp123", Amount: 49900, Currency: "INR"}, order)
	orders.AssertExpectations(t)
}

func TestRazorpayProvider_CreateOrderFailure(t *testing.T) {
	orders := new(mockOrders)
	p := &RazorpayProvider{orders: orders, logger: zap.NewNop()}
	orders.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("BAD_REQUEST_ERROR"))

	_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorContains(t, err, "BAD_REQUEST_ERROR")
}

func TestRazorpayProvider_CreateOrderWithoutID(t *testing.T) {
	orders := new(mockOrders)
	p := &RazorpayProvider{orders: orders, logger: zap.NewNop()}
	orders.On("Create", mock.Anything, mock.Anything).Return(map[string]interface{}{"amount": float64(100)}, nil)

	_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{Amount: 100, Currency: "INR"})
	var providerErr *provider.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, provider.ProviderTypeRazorpay, providerErr.Provider)
}

func TestRazorpayProvider_CancelledContext(t *testing.T) {
	orders := new(mockOrders)
	p := &RazorpayProvider{orders: orders, logger: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.CreateOrder(ctx, &provider.CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, context.Canceled)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
