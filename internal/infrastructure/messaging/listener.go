package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/coursehub/payment-service/internal/domain/event"
)

var validate = validator.New()

// errMalformed marks payloads that can never be applied; they are not retried.
var errMalformed = errors.New("malformed payload")

// Binding is a typed handler bound to one topic and durable queue.
type Binding struct {
	topic string
	queue string
	apply func(ctx context.Context, body []byte) error
}

// Bind binds handler to the topic of T on queue. Payloads are decoded as JSON into T and
// validated before the handler runs.
func Bind[T event.Event](queue string, handler func(context.Context, T) error) Binding {
	var zero T
	return Binding{
		topic: zero.Topic(),
		queue: queue,
		apply: func(ctx context.Context, body []byte) error {
			var evt T
			if err := json.Unmarshal(body, &evt); err != nil {
				return fmt.Errorf("%w: %v", errMalformed, err)
			}
			if err := validate.Struct(evt); err != nil {
				return fmt.Errorf("%w: %v", errMalformed, err)
			}
			return handler(ctx, evt)
		},
	}
}

func (b Binding) Topic() string { return b.topic }

func (b Binding) Queue() string { return b.queue }
