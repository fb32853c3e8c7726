package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/config"
	"github.com/coursehub/payment-service/internal/domain/event"
)

type settlement struct {
	acked   bool
	nacked  bool
	requeue bool
}

// fakeAcknowledger records how each delivery tag was settled.
type fakeAcknowledger struct {
	mu      sync.Mutex
	settled map[uint64]settlement
	done    chan uint64
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{
		settled: make(map[uint64]settlement),
		done:    make(chan uint64, 16),
	}
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.record(tag, settlement{acked: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.record(tag, settlement{nacked: true, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) record(tag uint64, s settlement) {
	f.mu.Lock()
	f.settled[tag] = s
	f.mu.Unlock()
	f.done <- tag
}

func (f *fakeAcknowledger) get(tag uint64) settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled[tag]
}

func (f *fakeAcknowledger) waitFor(t *testing.T, tag uint64) settlement {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-f.done:
			if got == tag {
				return f.get(tag)
			}
		case <-timeout:
			t.Fatalf("delivery %d was never settled", tag)
		}
	}
}

// fakeSubscriber returns one channel per queue that the test feeds directly.
type fakeSubscriber struct {
	mu      sync.Mutex
	streams map[string]chan amqp.Delivery
	subs    []Subscription
	err     error
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{streams: make(map[string]chan amqp.Delivery)}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, sub Subscription) (<-chan amqp.Delivery, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan amqp.Delivery, 8)
	f.streams[sub.Queue] = ch
	f.subs = append(f.subs, sub)
	return ch, nil
}

func (f *fakeSubscriber) publish(queue string, d amqp.Delivery) {
	f.mu.Lock()
	ch := f.streams[queue]
	f.mu.Unlock()
	ch <- d
}

func brokerConfig(policy string) config.BrokerConfig {
	return config.BrokerConfig{
		FailurePolicy:  policy,
		MaxAttempts:    3,
		RetryBackoff:   time.Millisecond,
		HandlerTimeout: time.Second,
	}
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(body)}
}

func startRuntime(t *testing.T, sub *fakeSubscriber, cfg config.BrokerConfig, bindings ...Binding) (*Runtime, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	rt := NewRuntime(sub, cfg, zap.NewNop(), bindings...)
	require.NoError(t, rt.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = rt.Wait()
	})
	return rt, cancel
}

func TestRuntime_SubscribesEveryBinding(t *testing.T) {
	sub := newFakeSubscriber()
	noop := func(context.Context, event.CourseDeleted) error { return nil }
	noopUser := func(context.Context, event.UserRegistered) error { return nil }

	startRuntime(t, sub, brokerConfig(config.FailurePolicyAck),
		Bind("svc.course.deleted", noop),
		Bind("svc.user.registered", noopUser),
	)

	assert.ElementsMatch(t, []Subscription{
		{Topic: event.TopicCourseDeleted, Queue: "svc.course.deleted"},
		{Topic: event.TopicUserRegistered, Queue: "svc.user.registered"},
	}, sub.subs)
}

func TestRuntime_StartFailsWhenSubscribeFails(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = errors.New("channel closed")
	rt := NewRuntime(sub, brokerConfig(config.FailurePolicyAck), zap.NewNop(),
		Bind("q", func(context.Context, event.CourseDeleted) error { return nil }))

	err := rt.Start(context.Background())
	assert.ErrorContains(t, err, "course.deleted")
}

func TestRuntime_AckPolicy(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	var applied []string
	var mu sync.Mutex
	handler := func(_ context.Context, evt event.CourseDeleted) error {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, evt.CourseID)
		if evt.CourseID == "boom" {
			return errors.New("database unavailable")
		}
		return nil
	}
	startRuntime(t, sub, brokerConfig(config.FailurePolicyAck), Bind("q", handler))

	sub.publish("q", delivery(acker, 1, `{"courseId":"C1"}`))
	assert.True(t, acker.waitFor(t, 1).acked)

	// Handler failure is acknowledged
	sub.publish("q", delivery(acker, 2, `{"courseId":"boom"}`))
	assert.True(t, acker.waitFor(t, 2).acked)

	// Undecodable payload is acknowledged and never reaches the handler
	sub.publish("q", delivery(acker, 3, `not json`))
	assert.True(t, acker.waitFor(t, 3).acked)

	// Missing required field fails validation
	sub.publish("q", delivery(acker, 4, `{}`))
	assert.True(t, acker.waitFor(t, 4).acked)

	// The consumer keeps going after failures
	sub.publish("q", delivery(acker, 5, `{"courseId":"C2"}`))
	assert.True(t, acker.waitFor(t, 5).acked)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"C1", "boom", "C2"}, applied)
}

func TestRuntime_DeadLetterPolicyRetriesThenRejects(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	var calls atomic.Int32
	handler := func(context.Context, event.CourseDeleted) error {
		calls.Add(1)
		return errors.New("database unavailable")
	}
	startRuntime(t, sub, brokerConfig(config.FailurePolicyDeadLetter), Bind("q", handler))

	sub.publish("q", delivery(acker, 1, `{"courseId":"C1"}`))
	got := acker.waitFor(t, 1)
	assert.True(t, got.nacked)
	assert.False(t, got.requeue)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRuntime_DeadLetterPolicyRecoversOnRetry(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	var calls atomic.Int32
	handler := func(context.Context, event.CourseDeleted) error {
		if calls.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}
	startRuntime(t, sub, brokerConfig(config.FailurePolicyDeadLetter), Bind("q", handler))

	sub.publish("q", delivery(acker, 1, `{"courseId":"C1"}`))
	assert.True(t, acker.waitFor(t, 1).acked)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRuntime_DeadLetterPolicyRejectsMalformedAtOnce(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	var calls atomic.Int32
	handler := func(context.Context, event.CourseDeleted) error {
		calls.Add(1)
		return nil
	}
	startRuntime(t, sub, brokerConfig(config.FailurePolicyDeadLetter), Bind("q", handler))

	sub.publish("q", delivery(acker, 1, `{"courseId":`))
	got := acker.waitFor(t, 1)
	assert.True(t, got.nacked)
	assert.False(t, got.requeue)
	assert.Zero(t, calls.Load())
}

func TestRuntime_DrainsInFlightHandlerOnShutdown(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	started := make(chan struct{})
	release := make(chan struct{})
	var handlerErr error
	handler := func(ctx context.Context, _ event.CourseDeleted) error {
		close(started)
		<-release
		handlerErr = ctx.Err()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	rt := NewRuntime(sub, brokerConfig(config.FailurePolicyAck), zap.NewNop(), Bind("q", handler))
	require.NoError(t, rt.Start(ctx))

	sub.publish("q", delivery(acker, 1, `{"courseId":"C1"}`))
	<-started
	cancel()

	waited := make(chan error, 1)
	go func() { waited <- rt.Wait() }()

	select {
	case <-waited:
		t.Fatal("runtime returned before the in-flight handler finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-waited)
	assert.NoError(t, handlerErr)
	assert.True(t, acker.get(1).acked)
}

func TestRuntime_ClosedStreamIsAnError(t *testing.T) {
	sub := newFakeSubscriber()
	rt := NewRuntime(sub, brokerConfig(config.FailurePolicyAck), zap.NewNop(),
		Bind("q", func(context.Context, event.CourseDeleted) error { return nil }))
	require.NoError(t, rt.Start(context.Background()))

	sub.mu.Lock()
	close(sub.streams["q"])
	sub.mu.Unlock()

	assert.ErrorContains(t, rt.Wait(), "closed")
}

func TestRuntime_DeadLetterPolicyRequeuesOnShutdownDuringBackoff(t *testing.T) {
	sub := newFakeSubscriber()
	acker := newFakeAcknowledger()

	firstCall := make(chan struct{})
	var calls atomic.Int32
	handler := func(context.Context, event.CourseDeleted) error {
		if calls.Add(1) == 1 {
			close(firstCall)
		}
		return errors.New("database unavailable")
	}

	cfg := brokerConfig(config.FailurePolicyDeadLetter)
	cfg.RetryBackoff = time.Minute
	_, cancel := startRuntime(t, sub, cfg, Bind("q", handler))

	sub.publish("q", delivery(acker, 1, `{"courseId":"C1"}`))
	<-firstCall
	cancel()

	got := acker.waitFor(t, 1)
	assert.True(t, got.nacked)
	assert.True(t, got.requeue)
	assert.Equal(t, int32(1), calls.Load())
}
