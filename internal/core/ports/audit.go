package ports

import (
	"context"
	"time"

	"github.com/dhkim93/session-auth/internal/core/domain"
)

// AuthEventInput carries one auth action to be recorded in the audit trail.
type AuthEventInput struct {
	UserID string
	Email  string
	Action string
	At     time.Time
}

// AuditService records auth events. Recording is best-effort: failures are
// logged by the caller, never surfaced to the client.
type AuditService interface {
	Record(ctx context.Context, in AuthEventInput) error
}

// AuditRepository persists auth events to the audit collection.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
