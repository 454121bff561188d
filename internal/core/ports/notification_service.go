package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// Pusher delivers a notification over the real-time channel to the addressed
// user. Delivery is best-effort: the dispatcher logs and swallows push errors
// because the persisted record is retrieved on the next poll regardless.
type Pusher interface {
	Push(ctx context.Context, userID string, n *domain.Notification) error
}

// NotificationService is the notification dispatcher.
type NotificationService interface {
	// Notify persists a notification and best-effort pushes it in real time.
	// The returned error covers persistence only; push failures never
	// propagate.
	Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message string) (*domain.Notification, error)

	// CheckUpcomingSessions emits idempotent reminders for sessions the user
	// is associated with that start within the lookahead window. Invoked
	// opportunistically on notification list fetches; cheap and safe to
	// repeat on every poll.
	CheckUpcomingSessions(ctx context.Context, userID string) error

	List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (*NotificationPage, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
