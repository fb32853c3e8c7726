package config

import (
	"errors"
	"time"
)

const defaultAnalyticsTTL = time.Minute

type ServiceConfig struct {
	Name        string   `yaml:"name"`
	Environment string   `yaml:"environment"`
	Version     string   `yaml:"version"`
	ClientURLs  []string `yaml:"client_urls"`
}

const (
	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
)

// GatewayConfig selects the payment gateway and holds its credentials.
type GatewayConfig struct {
	Provider string         `yaml:"provider"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Stripe   StripeConfig   `yaml:"stripe"`
}

type RazorpayConfig struct {
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"key_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

func (g GatewayConfig) validate() error {
	switch g.Provider {
	case GatewayRazorpay:
		if g.Razorpay.KeyID == "" || g.Razorpay.KeySecret == "" {
			return errors.New("gateway.razorpay key_id and key_secret are required")
		}
	case GatewayStripe:
		if g.Stripe.SecretKey == "" {
			return errors.New("gateway.stripe.secret_key is required")
		}
	default:
		return errors.New("gateway.provider must be razorpay or stripe")
	}
	return nil
}

// JWTConfig verifies the session token issued by the auth service.
type JWTConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
}

// RedisConfig enables the analytics cache when Addr is set.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	AnalyticsTTL time.Duration `yaml:"analytics_ttl"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}
