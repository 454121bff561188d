package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// NotificationPage is one page of a user's notifications plus the counts the
// client needs for pagination and the unread badge.
type NotificationPage struct {
	Items       []*domain.Notification
	Total       int64
	UnreadCount int64
	Page        int
	TotalPages  int
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (*NotificationPage, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	// ReminderExists reports whether an identical reminder has already been
	// delivered, keyed on (user, type, title, message).
	ReminderExists(ctx context.Context, userID string, typ domain.NotificationType, title, message string) (bool, error)
}
