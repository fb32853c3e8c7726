package event

import (
	"github.com/coursehub/payment-service/internal/domain/event"
	"github.com/coursehub/payment-service/internal/infrastructure/messaging"
	"github.com/coursehub/payment-service/internal/usecase"
)

// QueueNamer maps a topic to the durable queue this service consumes it from.
type QueueNamer func(topic string) string

// ReplicaHandler exposes the replica appliers as listener bindings
type ReplicaHandler struct {
	replicaService *usecase.ReplicaService
}

func NewReplicaHandler(replicaService *usecase.ReplicaService) *ReplicaHandler {
	return &ReplicaHandler{
		replicaService: replicaService,
	}
}

// Bindings returns one binding per consumed topic
func (h *ReplicaHandler) Bindings(queue QueueNamer) []messaging.Binding {
	return []messaging.Binding{
		messaging.Bind(queue(event.TopicCourseCreated), h.replicaService.ApplyCourseCreated),
		messaging.Bind(queue(event.TopicCourseUpdated), h.replicaService.ApplyCourseUpdated),
		messaging.Bind(queue(event.TopicCourseDeleted), h.replicaService.ApplyCourseDeleted),
		messaging.Bind(queue(event.TopicUserRegistered), h.replicaService.ApplyUserRegistered),
		messaging.Bind(queue(event.TopicUserRoleUpdated), h.replicaService.ApplyUserRoleUpdated),
	}
}
