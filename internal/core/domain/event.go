package domain

import "time"

// AuthEventType names a security-relevant account action.
type AuthEventType string

const (
	EventRegistered   AuthEventType = "registered"
	EventLoggedIn     AuthEventType = "logged_in"
	EventLoggedOut    AuthEventType = "logged_out"
	EventAdminGranted AuthEventType = "admin_granted"
	EventAdminRevoked AuthEventType = "admin_revoked"
)

// AuthEvent is an entry in the account audit trail.
type AuthEvent struct {
	Type       AuthEventType
	UID        string
	Email      string
	ActorUID   string // optional: the admin that performed the action
	OccurredAt time.Time
}
