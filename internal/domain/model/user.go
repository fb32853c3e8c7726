package model

import "time"

type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
	UserRoleAdmin      UserRole = "admin"
)

// User is the local replica of a user owned by the user service.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      UserRole  `gorm:"size:20;not null;default:'student'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// CanViewRevenue reports whether the role may read revenue analytics.
func (r UserRole) CanViewRevenue() bool {
	return r == UserRoleInstructor || r == UserRoleAdmin
}
