package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/config"
	"github.com/coursehub/payment-service/internal/domain/provider"
	razorpayProvider "github.com/coursehub/payment-service/internal/infrastructure/provider/razorpay"
	stripeProvider "github.com/coursehub/payment-service/internal/infrastructure/provider/stripe"
)

// Factory creates gateway clients based on the provider type
type Factory struct {
	config config.GatewayConfig
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config config.GatewayConfig, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetProvider returns a gateway client for the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.GatewayClient, error) {
	switch providerType {
	case provider.ProviderTypeRazorpay:
		return f.createRazorpayProvider()
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetConfiguredProvider returns the gateway client selected by configuration. Razorpay is the
// default.
func (f *Factory) GetConfiguredProvider() (provider.GatewayClient, error) {
	providerStr := f.config.Provider
	if providerStr == "" {
		providerStr = string(provider.ProviderTypeRazorpay)
	}
	return f.GetProvider(provider.ProviderType(providerStr))
}

func (f *Factory) createRazorpayProvider() (provider.GatewayClient, error) {
	if f.config.Razorpay.KeyID == "" || f.config.Razorpay.KeySecret == "" {
		return nil, fmt.Errorf("Razorpay key id and secret not configured")
	}

	return razorpayProvider.NewRazorpayProvider(
		f.config.Razorpay.KeyID,
		f.config.Razorpay.KeySecret,
		f.logger,
	), nil
}

func (f *Factory) createStripeProvider() (provider.GatewayClient, error) {
	if f.config.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("Stripe secret key not configured")
	}

	return stripeProvider.NewStripeProvider(
		f.config.Stripe.SecretKey,
		f.logger,
	), nil
}
