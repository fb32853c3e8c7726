// Package event defines the payloads this service consumes from the course and user services.
// Each payload type is one case of the Event sum type and knows the topic it arrives on.
package event

import (
	"github.com/shopspring/decimal"

	"github.com/coursehub/payment-service/internal/domain/model"
)

const (
	TopicCourseCreated   = "course.created"
	TopicCourseUpdated   = "course.updated"
	TopicCourseDeleted   = "course.deleted"
	TopicUserRegistered  = "user.registered"
	TopicUserRoleUpdated = "user.role.updated"
)

// Event is implemented by every consumed payload.
type Event interface {
	Topic() string
}

type CourseCreated struct {
	CourseID     string              `json:"courseId" validate:"required"`
	InstructorID string              `json:"instructorId" validate:"required"`
	Title        string              `json:"title" validate:"required"`
	Price        decimal.NullDecimal `json:"price"`
	Currency     *string             `json:"currency" validate:"omitempty,len=3"`
}

func (CourseCreated) Topic() string { return TopicCourseCreated }

// CourseUpdated carries only the fields that changed.
type CourseUpdated struct {
	CourseID string           `json:"courseId" validate:"required"`
	NewPrice *decimal.Decimal `json:"newPrice,omitempty"`
	NewTitle *string          `json:"newTitle,omitempty"`
}

func (CourseUpdated) Topic() string { return TopicCourseUpdated }

// IsEmpty reports whether the update carries no field change.
func (e CourseUpdated) IsEmpty() bool {
	return e.NewPrice == nil && e.NewTitle == nil
}

type CourseDeleted struct {
	CourseID string `json:"courseId" validate:"required"`
}

func (CourseDeleted) Topic() string { return TopicCourseDeleted }

// UserRegistered carries no role; new users are students until a role update arrives.
type UserRegistered struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required"`
}

func (UserRegistered) Topic() string { return TopicUserRegistered }

type UserRoleUpdated struct {
	UserID    string         `json:"userId" validate:"required"`
	NewRole   model.UserRole `json:"newRole" validate:"required,oneof=student instructor admin"`
	UserEmail string         `json:"userEmail" validate:"required"`
}

func (UserRoleUpdated) Topic() string { return TopicUserRoleUpdated }
