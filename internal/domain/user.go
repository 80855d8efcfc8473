package domain

import "time"

// UserRole is the closed set of user roles
type UserRole string

// User roles
const (
	RoleUser  UserRole = "user"  // Regular authenticated user
	RoleAdmin UserRole = "admin" // Administrative user
)

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                    // Primary key
	Username  string    `gorm:"size:30;unique;not null" json:"username"` // Unique username, stored lowercase
	Password  string    `gorm:"not null" json:"-"`                       // Bcrypt hash, never serialized
	Role      UserRole  `gorm:"size:10;default:user" json:"role"`        // user or admin
	CreatedAt time.Time `json:"created_at"`                              // Timestamp of creation
}
