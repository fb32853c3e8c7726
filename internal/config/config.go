package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coursehub/payment-service/pkg/logger"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Broker   BrokerConfig   `yaml:"broker"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      logger.Config  `yaml:"log"`
}

// LoadConfig reads the YAML file at CONFIG_PATH (default ./configs/payment.yaml). ${VAR}
// references are expanded from the environment before parsing so secrets stay out of the file.
func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/payment.yaml"
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", absPath, err)
	}

	return cfg, nil
}

// Parse expands environment references in data, unmarshals it and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
		errs = append(errs, errors.New("database host, name and user are required"))
	}
	if c.Broker.URL == "" {
		errs = append(errs, errors.New("broker.url is required"))
	}
	if err := c.Gateway.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.Broker.FailurePolicy != FailurePolicyAck && c.Broker.FailurePolicy != FailurePolicyDeadLetter {
		errs = append(errs, fmt.Errorf("unknown broker.failure_policy %q", c.Broker.FailurePolicy))
	}

	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "payment"
	}
	if c.Server.HTTP.Port == 0 {
		c.Server.HTTP.Port = 8080
	}
	if c.Server.GRPC.Port == 0 {
		c.Server.GRPC.Port = 9090
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	c.Broker.applyDefaults()
	if c.Gateway.Provider == "" {
		c.Gateway.Provider = GatewayRazorpay
	}
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = "session"
	}
	if c.Redis.AnalyticsTTL == 0 {
		c.Redis.AnalyticsTTL = defaultAnalyticsTTL
	}
}
