package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/provider"
)

// StripeProvider implements provider.GatewayClient with Stripe PaymentIntents. The intent id is
// used as the gateway order id.
type StripeProvider struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeProvider creates a new Stripe provider
func NewStripeProvider(secretKey string, logger *zap.Logger) *StripeProvider {
	return newStripeProvider(client.New(secretKey, nil), logger)
}

func newStripeProvider(api *client.API, logger *zap.Logger) *StripeProvider {
	return &StripeProvider{
		api:    api,
		logger: logger,
	}
}

func (s *StripeProvider) Name() string {
	return string(provider.ProviderTypeStripe)
}

// CreateOrder creates a PaymentIntent for the amount
func (s *StripeProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.GatewayOrder, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Receipt),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.Receipt)
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		s.logger.Error("Stripe payment intent creation failed",
			zap.String("receipt", req.Receipt),
			zap.Int64("amount", req.Amount),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	s.logger.Info("Stripe payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("receipt", req.Receipt),
		zap.Int64("amount", pi.Amount))

	return &provider.GatewayOrder{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: strings.ToUpper(string(pi.Currency)),
	}, nil
}
