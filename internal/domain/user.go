package domain

import "time"

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular customer
	RoleAdmin = "admin" // Catalog and order manager
)

// User Model
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`                  // Opaque user ID
	Username  string    `gorm:"uniqueIndex;size:191;not null" json:"username"` // Unique username
	Email     string    `gorm:"size:191" json:"email,omitempty"`               // Optional email
	Password  string    `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	Role      string    `gorm:"size:16;default:user" json:"role"`              // Role: user or admin
	CreatedAt time.Time `json:"-"`                                             // Registration time
}

// IsAdmin reports whether the user may use the admin panel
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
