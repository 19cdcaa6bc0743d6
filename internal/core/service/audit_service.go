package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dhkim93/session-auth/internal/core/domain"
	"github.com/dhkim93/session-auth/internal/core/ports"
)

// ActivityRecorder abstracts the last-seen store (Redis). Markers are
// informational only; no auth decision reads them.
type ActivityRecorder interface {
	Touch(ctx context.Context, userID, action string, at time.Time) error
}

type auditService struct {
	events   ports.AuditRepository
	activity ActivityRecorder
	log      zerolog.Logger
}

// NewAuditService returns an AuditService that persists events and updates
// per-account activity markers.
func NewAuditService(events ports.AuditRepository, activity ActivityRecorder, log zerolog.Logger) ports.AuditService {
	return &auditService{events: events, activity: activity, log: log}
}

// Record persists a single auth event. The activity marker update is
// non-fatal on failure.
func (s *auditService) Record(ctx context.Context, in ports.AuthEventInput) error {
	event := &domain.AuthEvent{
		UserID: in.UserID,
		Email:  in.Email,
		Action: in.Action,
		At:     in.At,
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	if in.UserID != "" {
		if err := s.activity.Touch(ctx, in.UserID, in.Action, in.At); err != nil {
			s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to update activity marker")
		}
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Str("action", in.Action).
		Msg("auth event recorded")

	return nil
}
