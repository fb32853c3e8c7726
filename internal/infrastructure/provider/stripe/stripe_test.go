package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/provider"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	api := client.New("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return newStripeProvider(api, zap.NewNop())
}

func TestStripeProvider_CreateOrder(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "receipt_order_abc", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "49900", r.PostForm.Get("amount"))
		assert.Equal(t, "inr", r.PostForm.Get("currency"))
		assert.Equal(t, "C1", r.PostForm.Get("metadata[courseId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":49900,"currency":"inr","status":"requires_payment_method"}`))
	})

	order, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "receipt_order_abc",
		Notes:    map[string]string{"userId": "U1", "courseId": "C1"},
	})
	require.NoError(t, err)
	assert.Equal(t, &provider.GatewayOrder{ID: "pi_123", Amount: 49900, Currency: "INR"}, order)
}

func TestStripeProvider_CreateOrderFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Amount must be at least 50"}}`))
	})

	_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})
	assert.ErrorContains(t, err, "Amount must be at least 50")
}
