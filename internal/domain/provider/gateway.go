package provider

import "context"

// GatewayClient creates remote orders at the payment gateway.
type GatewayClient interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*GatewayOrder, error)

	// Name returns the provider name
	Name() string
}

// CreateOrderRequest is a provider-agnostic order request
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"` // Amount in smallest currency unit
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// GatewayOrder is the gateway's view of a created order
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeRazorpay ProviderType = "razorpay"
	ProviderTypeStripe   ProviderType = "stripe"
)

// ProviderError is returned when the gateway answers with something unusable
type ProviderError struct {
	Provider ProviderType `json:"provider"`
	Message  string       `json:"message"`
	Details  string       `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return string(e.Provider) + ": " + e.Message + ": " + e.Details
	}
	return string(e.Provider) + ": " + e.Message
}

// GatewayHolder hands out the process-wide gateway client.
type GatewayHolder interface {
	Instance() (GatewayClient, error)
}
