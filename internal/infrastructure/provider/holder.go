package provider

import (
	"sync"

	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/provider"
)

// Holder lazily builds the process-wide gateway client on first use. Construction runs once;
// its result, error included, is returned to every caller.
type Holder struct {
	build  func() (provider.GatewayClient, error)
	logger *zap.Logger

	once   sync.Once
	client provider.GatewayClient
	err    error
}

// NewHolder creates a holder that builds the configured provider from factory
func NewHolder(factory *Factory, logger *zap.Logger) *Holder {
	return NewHolderFunc(factory.GetConfiguredProvider, logger)
}

// NewHolderFunc creates a holder around an arbitrary constructor
func NewHolderFunc(build func() (provider.GatewayClient, error), logger *zap.Logger) *Holder {
	return &Holder{
		build:  build,
		logger: logger,
	}
}

// Instance returns the shared gateway client, constructing it on the first call
func (h *Holder) Instance() (provider.GatewayClient, error) {
	h.once.Do(func() {
		h.client, h.err = h.build()
		if h.err != nil {
			h.logger.Error("Failed to construct payment gateway client", zap.Error(h.err))
			return
		}
		h.logger.Info("Payment gateway client initialized", zap.String("provider", h.client.Name()))
	})
	return h.client, h.err
}
