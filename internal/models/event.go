package models

// Auth event types published to the notification topic.
const (
	EventUserRegistered         = "user.registered"
	EventPasswordResetRequested = "password.reset.requested"
)

// AuthEvent is a best-effort notification about an account flow.
type AuthEvent struct {
	EventID   string `json:"event_id"`  // Unique event id
	Type      string `json:"type"`      // One of the Event* constants
	Timestamp int64  `json:"timestamp"` // Unix timestamp of the event
	UserID    string `json:"user_id"`   // Affected user id
	Username  string `json:"username"`  // Affected username
	Email     string `json:"email"`     // Affected email
}
