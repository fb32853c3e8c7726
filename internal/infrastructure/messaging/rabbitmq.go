package messaging

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/config"
)

// Subscription describes one durable queue bound to a single routing key.
type Subscription struct {
	Topic string
	Queue string
}

// Subscriber hands out delivery streams for subscriptions. The stream is closed once ctx is
// cancelled and buffered deliveries have been flushed.
type Subscriber interface {
	Subscribe(ctx context.Context, sub Subscription) (<-chan amqp.Delivery, error)
}

// Connection owns the process-wide broker connection and its channel.
type Connection struct {
	cfg    config.BrokerConfig
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *zap.Logger

	mu sync.Mutex
}

// Connect dials the broker, opens a channel, applies the prefetch limit and declares the
// topic exchange.
func Connect(cfg config.BrokerConfig, logger *zap.Logger) (*Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open broker channel: %w", err)
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	c := &Connection{
		cfg:    cfg,
		conn:   conn,
		ch:     ch,
		logger: logger,
	}

	if cfg.FailurePolicy == config.FailurePolicyDeadLetter {
		if err := ch.ExchangeDeclare(c.deadLetterExchange(), amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare dead-letter exchange: %w", err)
		}
	}

	go c.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	logger.Info("Broker connection established",
		zap.String("exchange", cfg.Exchange),
		zap.Int("prefetch", cfg.Prefetch),
		zap.String("failure_policy", cfg.FailurePolicy),
	)

	return c, nil
}

func (c *Connection) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		c.logger.Error("Broker connection lost",
			zap.Int("code", err.Code),
			zap.String("reason", err.Reason),
		)
	}
}

func (c *Connection) deadLetterExchange() string {
	return c.cfg.Exchange + ".dlx"
}

// Subscribe declares the durable queue, binds it to the exchange with the topic as routing key
// and starts a manual-ack consumer.
func (c *Connection) Subscribe(ctx context.Context, sub Subscription) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var args amqp.Table
	if c.cfg.FailurePolicy == config.FailurePolicyDeadLetter {
		dlq := sub.Queue + ".dlq"
		if _, err := c.ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", dlq, err)
		}
		if err := c.ch.QueueBind(dlq, sub.Topic, c.deadLetterExchange(), false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue %s: %w", dlq, err)
		}
		args = amqp.Table{"x-dead-letter-exchange": c.deadLetterExchange()}
	}

	if _, err := c.ch.QueueDeclare(sub.Queue, true, false, false, false, args); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", sub.Queue, err)
	}
	if err := c.ch.QueueBind(sub.Queue, sub.Topic, c.cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", sub.Queue, err)
	}

	deliveries, err := c.ch.Consume(sub.Queue, sub.Queue, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume queue %s: %w", sub.Queue, err)
	}

	go func() {
		<-ctx.Done()
		if c.ch.IsClosed() {
			return
		}
		if err := c.ch.Cancel(sub.Queue, false); err != nil {
			c.logger.Warn("Failed to cancel consumer",
				zap.String("queue", sub.Queue),
				zap.Error(err))
		}
	}()

	c.logger.Info("Subscribed to topic",
		zap.String("topic", sub.Topic),
		zap.String("queue", sub.Queue),
	)

	return deliveries, nil
}

// IsOpen reports whether the connection and channel are usable.
func (c *Connection) IsOpen() bool {
	return !c.conn.IsClosed() && !c.ch.IsClosed()
}

// Close closes the channel and the connection. Unacknowledged deliveries are requeued by the
// broker.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn.IsClosed() {
		return nil
	}
	if err := c.ch.Close(); err != nil {
		c.logger.Warn("Failed to close broker channel", zap.Error(err))
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close broker connection: %w", err)
	}

	c.logger.Info("Broker connection closed")
	return nil
}
