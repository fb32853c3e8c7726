package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coursehub/payment-service/internal/config"
)

// Runtime runs one consume loop per binding.
type Runtime struct {
	subscriber Subscriber
	bindings   []Binding
	cfg        config.BrokerConfig
	logger     *zap.Logger

	group *errgroup.Group
}

func NewRuntime(subscriber Subscriber, cfg config.BrokerConfig, logger *zap.Logger, bindings ...Binding) *Runtime {
	return &Runtime{
		subscriber: subscriber,
		bindings:   bindings,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start subscribes every binding and launches its consume loop. Cancelling ctx stops intake;
// Wait blocks until in-flight deliveries are settled.
func (r *Runtime) Start(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)

	for _, b := range r.bindings {
		deliveries, err := r.subscriber.Subscribe(gctx, Subscription{Topic: b.topic, Queue: b.queue})
		if err != nil {
			return fmt.Errorf("failed to subscribe %s: %w", b.topic, err)
		}

		b := b
		group.Go(func() error {
			return r.consume(gctx, b, deliveries)
		})
	}

	r.group = group
	r.logger.Info("Event listeners started", zap.Int("listeners", len(r.bindings)))
	return nil
}

// Wait returns once every consume loop has exited.
func (r *Runtime) Wait() error {
	if r.group == nil {
		return nil
	}
	err := r.group.Wait()
	r.logger.Info("Event listeners drained")
	return err
}

func (r *Runtime) consume(ctx context.Context, b Binding, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery stream for %s closed", b.queue)
			}
			r.process(ctx, b, d)
		}
	}
}

// process applies one delivery and settles it. The handler runs on a context detached from
// shutdown so an in-flight write is not cut short.
func (r *Runtime) process(ctx context.Context, b Binding, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.HandlerTimeout)
	defer cancel()

	fields := []zap.Field{
		zap.String("topic", b.topic),
		zap.String("queue", b.queue),
		zap.Uint64("delivery_tag", d.DeliveryTag),
		zap.Bool("redelivered", d.Redelivered),
	}

	if r.cfg.FailurePolicy != config.FailurePolicyDeadLetter {
		if err := b.apply(hctx, d.Body); err != nil {
			r.logger.Error("Failed to apply event; acknowledging anyway",
				append(fields, zap.ByteString("payload", d.Body), zap.Error(err))...)
		}
		r.ack(d, fields)
		return
	}

	err := r.applyWithRetry(ctx, hctx, b, d.Body, fields)
	switch {
	case err == nil:
		r.ack(d, fields)
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		r.logger.Warn("Shutdown during retry; requeueing event", fields...)
		if nackErr := d.Nack(false, true); nackErr != nil {
			r.logger.Error("Failed to requeue delivery", append(fields, zap.Error(nackErr))...)
		}
	default:
		r.logger.Error("Failed to apply event; dead-lettering",
			append(fields, zap.ByteString("payload", d.Body), zap.Error(err))...)
		if nackErr := d.Nack(false, false); nackErr != nil {
			r.logger.Error("Failed to reject delivery", append(fields, zap.Error(nackErr))...)
		}
	}
}

// applyWithRetry retries handler failures with doubling backoff. Malformed payloads fail at once.
// Waiting between attempts ends at shutdown or when the handler timeout expires.
func (r *Runtime) applyWithRetry(ctx, hctx context.Context, b Binding, body []byte, fields []zap.Field) error {
	retryCtx, cancel := context.WithCancel(hctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.cfg.RetryBackoff
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0
	attempts := max(r.cfg.MaxAttempts, 1)

	attempt := 0
	err := backoff.RetryNotify(
		func() error {
			attempt++
			err := b.apply(hctx, body)
			if errors.Is(err, errMalformed) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), retryCtx),
		func(err error, wait time.Duration) {
			r.logger.Warn("Event handler failed; retrying",
				append(fields, zap.Int("attempt", attempt), zap.Duration("backoff", wait), zap.Error(err))...)
		},
	)

	switch {
	case err == nil, errors.Is(err, errMalformed):
		return err
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
}

func (r *Runtime) ack(d amqp.Delivery, fields []zap.Field) {
	if err := d.Ack(false); err != nil {
		r.logger.Error("Failed to acknowledge delivery", append(fields, zap.Error(err))...)
	}
}
