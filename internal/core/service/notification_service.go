package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// reminderLookahead is the fixed window for upcoming-session reminders.
const reminderLookahead = 30 * time.Minute

const reminderTitle = "Upcoming Session Reminder"

// NotificationService persists notifications and attempts real-time delivery.
// Delivery failure never blocks the persisted record or the caller.
type NotificationService struct {
	repo     ports.NotificationRepository
	users    ports.UserRepository
	sessions ports.SessionRepository
	apps     ports.ApplicationRepository
	pusher   ports.Pusher
	log      zerolog.Logger
	clock    clockwork.Clock
}

func NewNotificationService(
	repo ports.NotificationRepository,
	users ports.UserRepository,
	sessions ports.SessionRepository,
	apps ports.ApplicationRepository,
	pusher ports.Pusher,
	log zerolog.Logger,
	clock clockwork.Clock,
) *NotificationService {
	return &NotificationService{
		repo:     repo,
		users:    users,
		sessions: sessions,
		apps:     apps,
		pusher:   pusher,
		log:      log,
		clock:    clock,
	}
}

// Notify stores the notification (even if the user is offline), then
// best-effort pushes it to the user's real-time channel. Push errors are
// logged, never propagated: a missed push is recovered on the next poll.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		User:      userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: s.clock.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if err := s.pusher.Push(ctx, userID, created); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Str("type", string(typ)).Msg("real-time push failed")
	}

	return created, nil
}

// CheckUpcomingSessions finds Active sessions associated with the user that
// start within the lookahead window and emits one reminder per session. A
// reminder is skipped when an identical (user, type, title, message) record
// already exists, so repeated polling never duplicates delivery.
func (s *NotificationService) CheckUpcomingSessions(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("reminder check: %w", err)
	}

	var sessionIDs []string
	switch user.Role {
	case domain.RoleJobSeeker:
		apps, err := s.apps.FindByJobSeeker(ctx, userID, ports.ApplicationsFilter{Status: string(domain.StatusSelected)})
		if err != nil {
			return fmt.Errorf("reminder check: %w", err)
		}
		for _, app := range apps {
			sessionIDs = append(sessionIDs, app.Session)
		}
	case domain.RoleOrganization:
		sessions, err := s.sessions.FindByOrganization(ctx, userID, "")
		if err != nil {
			return fmt.Errorf("reminder check: %w", err)
		}
		for _, session := range sessions {
			sessionIDs = append(sessionIDs, session.ID)
		}
	}
	if len(sessionIDs) == 0 {
		return nil
	}

	now := s.clock.Now()
	upcoming, err := s.sessions.FindUpcoming(ctx, sessionIDs, now, now.Add(reminderLookahead))
	if err != nil {
		return fmt.Errorf("reminder check: %w", err)
	}

	for _, session := range upcoming {
		message := fmt.Sprintf("Your session %q starts soon at %s!", session.Title, session.StartDate.Format("15:04"))

		exists, err := s.repo.ReminderExists(ctx, userID, domain.NotificationReminder, reminderTitle, message)
		if err != nil {
			s.log.Warn().Err(err).Str("session", session.ID).Msg("reminder dedup check failed")
			continue
		}
		if exists {
			continue
		}

		if _, err := s.Notify(ctx, userID, domain.NotificationReminder, reminderTitle, message); err != nil {
			s.log.Warn().Err(err).Str("session", session.ID).Msg("failed to create reminder")
		}
	}
	return nil
}

// List returns one page of the user's notifications, running the upcoming
// session check first so fresh reminders appear in the same poll.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int, unreadOnly bool) (*ports.NotificationPage, error) {
	if err := s.CheckUpcomingSessions(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("upcoming session check failed")
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.List(ctx, userID, page, limit, unreadOnly)
}

// MarkRead flags one notification as read; only the addressee may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.User != userID {
		return domain.ErrForbidden
	}
	return s.repo.MarkRead(ctx, notificationID)
}

// MarkAllRead flags all of the user's unread notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

var _ ports.NotificationService = (*NotificationService)(nil)
