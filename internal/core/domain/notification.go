package domain

import (
	"errors"
	"time"
)

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationApplication   NotificationType = "application"
	NotificationStatusChange  NotificationType = "status_change"
	NotificationSessionUpdate NotificationType = "session_update"
	NotificationReminder      NotificationType = "reminder"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is addressed to a single user. Records are created by the
// dispatcher only; the read flag is the sole field users may mutate.
type Notification struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	User      string           `json:"user" bson:"user"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}
