package models

import (
	"github.com/google/uuid"
)

// Session expiry policies, in seconds.
const (
	// SessionExpiryRemember keeps the session alive for 14 days.
	SessionExpiryRemember = 1209600
	// SessionExpiryBrowser ends the session when the client's browsing
	// context ends: no exp claim on the token, no TTL on the record.
	SessionExpiryBrowser = 0
)

// Session represents an established session handed to the client.
type Session struct {
	Token     string    `json:"token"`      // Server-issued session token
	UserID    uuid.UUID `json:"user_id"`    // The single user this session belongs to
	ExpiresIn int       `json:"expires_in"` // Expiry in seconds; 0 means browser-session
}
