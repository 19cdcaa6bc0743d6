package domain

import "time"

// Auth actions recorded in the audit trail.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionRefresh  = "refresh"
	ActionLogout   = "logout"
)

// AuthEvent is one entry in the auth audit trail. UserID and Email may be
// empty for actions that carry no verified identity (logout).
type AuthEvent struct {
	UserID string
	Email  string
	Action string
	At     time.Time
}
