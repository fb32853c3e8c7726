package config

import "time"

const (
	// FailurePolicyAck acknowledges every delivery whatever the handler outcome.
	FailurePolicyAck = "ack"
	// FailurePolicyDeadLetter retries failed handlers and then rejects the delivery into
	// the dead-letter exchange.
	FailurePolicyDeadLetter = "dead_letter"
)

type BrokerConfig struct {
	URL            string        `yaml:"url"`
	Exchange       string        `yaml:"exchange"`
	QueuePrefix    string        `yaml:"queue_prefix"`
	Prefetch       int           `yaml:"prefetch"`
	FailurePolicy  string        `yaml:"failure_policy"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	HandlerTimeout time.Duration `yaml:"handler_timeout"`
}

func (b *BrokerConfig) applyDefaults() {
	if b.Exchange == "" {
		b.Exchange = "domain_events"
	}
	if b.QueuePrefix == "" {
		b.QueuePrefix = "payment-service"
	}
	if b.Prefetch == 0 {
		b.Prefetch = 10
	}
	if b.FailurePolicy == "" {
		b.FailurePolicy = FailurePolicyAck
	}
	if b.MaxAttempts == 0 {
		b.MaxAttempts = 3
	}
	if b.RetryBackoff == 0 {
		b.RetryBackoff = 200 * time.Millisecond
	}
	if b.HandlerTimeout == 0 {
		b.HandlerTimeout = 10 * time.Second
	}
}

// QueueName returns the durable queue this service binds for topic.
func (b BrokerConfig) QueueName(topic string) string {
	return b.QueuePrefix + "." + topic
}
