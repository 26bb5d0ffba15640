package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`             // Primary key
	Email        string    `json:"email" db:"email"`                 // Unique email, used as the login identifier
	Username     string    `json:"username" db:"username"`           // Unique display username
	PasswordHash string    `json:"-" db:"password_hash"`             // Hashed password, never serialized
	FirstName    string    `json:"first_name" db:"first_name"`       // Optional display attribute
	LastName     string    `json:"last_name" db:"last_name"`         // Optional display attribute
	IsActive     bool      `json:"is_active" db:"is_active"`         // Deactivate instead of deleting accounts
	IsStaff      bool      `json:"is_staff" db:"is_staff"`           // Staff site access
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`           // Admin access
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`     // Refreshed on every save (last-touched semantics)
}
