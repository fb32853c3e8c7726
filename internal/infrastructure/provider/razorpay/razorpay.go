package razorpay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/provider"
)

// orderCreator is the part of the SDK order resource in use.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayProvider implements provider.GatewayClient with Razorpay orders
type RazorpayProvider struct {
	orders orderCreator
	logger *zap.Logger
}

// NewRazorpayProvider creates a new Razorpay provider
func NewRazorpayProvider(keyID, keySecret string, logger *zap.Logger) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayProvider{
		orders: client.Order,
		logger: logger,
	}
}

func (p *RazorpayProvider) Name() string {
	return string(provider.ProviderTypeRazorpay)
}

// CreateOrder creates a Razorpay order. The SDK call does not take a context; ctx is only
// checked before the request is sent.
func (p *RazorpayProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	body, err := p.orders.Create(map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		p.logger.Error("Razorpay order creation failed",
			zap.String("receipt", req.Receipt),
			zap.Int64("amount", req.Amount),
			zap.Error(err))
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}

	order, err := parseOrder(body)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Razorpay order created",
		zap.String("order_id", order.ID),
		zap.String("receipt", req.Receipt),
		zap.Int64("amount", order.Amount))

	return order, nil
}

func parseOrder(body map[string]interface{}) (*provider.GatewayOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, &provider.ProviderError{
			Provider: provider.ProviderTypeRazorpay,
			Message:  "order response has no id",
		}
	}

	order := &provider.GatewayOrder{ID: id}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = strings.ToUpper(currency)
	}

	switch amount := body["amount"].(type) {
	case float64:
		order.Amount = int64(amount)
	case int64:
		order.Amount = amount
	case int:
		order.Amount = int64(amount)
	case json.Number:
		n, err := amount.Int64()
		if err != nil {
			return nil, &provider.ProviderError{
				Provider: provider.ProviderTypeRazorpay,
				Message:  "invalid order amount",
				Details:  err.Error(),
			}
		}
		order.Amount = n
	}

	return order, nil
}
