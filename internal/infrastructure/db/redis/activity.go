package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activityTTL = 30 * 24 * time.Hour

// ActivityRecorder stores per-account last-seen markers in Redis.
// Key format: activity:<user_id>:<action>
//
// Markers are informational only. No auth decision reads them, so the
// session design stays stateless with respect to issued tokens.
type ActivityRecorder struct {
	client *redis.Client
}

func NewActivityRecorder(client *redis.Client) *ActivityRecorder {
	return &ActivityRecorder{client: client}
}

// Touch records when an account last performed an action (expires after activityTTL).
func (a *ActivityRecorder) Touch(ctx context.Context, userID, action string, at time.Time) error {
	return a.client.Set(ctx, a.key(userID, action), at.UTC().Format(time.RFC3339), activityTTL).Err()
}

// LastSeen returns the most recent marker for the action, or the zero time
// when none is recorded.
func (a *ActivityRecorder) LastSeen(ctx context.Context, userID, action string) (time.Time, error) {
	v, err := a.client.Get(ctx, a.key(userID, action)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("activity get: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("activity parse: %w", err)
	}
	return ts, nil
}

func (a *ActivityRecorder) key(userID, action string) string {
	return fmt.Sprintf("activity:%s:%s", userID, action)
}
