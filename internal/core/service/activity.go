package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// ActivityRecorder appends audit entries without ever failing the caller's
// main operation: append errors are logged and dropped.
type ActivityRecorder struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

func NewActivityRecorder(repo ports.ActivityRepository, log zerolog.Logger) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, log: log}
}

// Record appends one entry to the audit trail.
func (r *ActivityRecorder) Record(ctx context.Context, userID, role, action, targetType, targetID string, meta map[string]string) {
	entry := &domain.ActivityEntry{
		User:       userID,
		Action:     action,
		ActorRole:  role,
		TargetType: targetType,
		TargetID:   targetID,
		Meta:       meta,
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("action", action).Str("user", userID).Msg("failed to append activity entry")
	}
}
