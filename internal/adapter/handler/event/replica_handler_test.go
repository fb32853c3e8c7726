package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/config"
	"github.com/coursehub/payment-service/internal/domain/event"
	"github.com/coursehub/payment-service/internal/usecase"
)

func TestReplicaHandler_Bindings(t *testing.T) {
	broker := config.BrokerConfig{QueuePrefix: "payment-service"}
	h := NewReplicaHandler(usecase.NewReplicaService(nil, nil, nil, zap.NewNop()))

	queues := map[string]string{}
	for _, b := range h.Bindings(broker.QueueName) {
		queues[b.Topic()] = b.Queue()
	}

	assert.Equal(t, map[string]string{
		event.TopicCourseCreated:   "payment-service.course.created",
		event.TopicCourseUpdated:   "payment-service.course.updated",
		event.TopicCourseDeleted:   "payment-service.course.deleted",
		event.TopicUserRegistered:  "payment-service.user.registered",
		event.TopicUserRoleUpdated: "payment-service.user.role.updated",
	}, queues)
}
