package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// BroadcastQueue accepts a session-created fan-out job. Submission is
// non-blocking; completion is observable only through logs and metrics,
// never through the triggering request.
type BroadcastQueue interface {
	EnqueueSessionCreated(sessionID, sessionTitle, organizationName string)
}

// SessionService covers the organization-side session lifecycle.
type SessionService struct {
	sessions  ports.SessionRepository
	apps      ports.ApplicationRepository
	users     ports.UserRepository
	broadcast BroadcastQueue
	activity  *ActivityRecorder
	log       zerolog.Logger
	clock     clockwork.Clock
}

func NewSessionService(
	sessions ports.SessionRepository,
	apps ports.ApplicationRepository,
	users ports.UserRepository,
	broadcast BroadcastQueue,
	activity *ActivityRecorder,
	log zerolog.Logger,
	clock clockwork.Clock,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		apps:      apps,
		users:     users,
		broadcast: broadcast,
		activity:  activity,
		log:       log,
		clock:     clock,
	}
}

const defaultCapacity = 50

// Create posts a new session and queues the job-seeker broadcast. The
// response never waits on the fan-out.
func (s *SessionService) Create(ctx context.Context, orgID string, input ports.CreateSessionInput) (*domain.Session, error) {
	org, err := s.users.FindByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !org.IsActive {
		return nil, domain.ErrAccountClosed
	}

	status := input.Status
	if status == "" {
		status = domain.SessionActive
	}
	if !domain.ValidSessionStatus(status) {
		return nil, fmt.Errorf("create session: unknown status %q", status)
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	now := s.clock.Now().UTC()
	session := &domain.Session{
		Title:                input.Title,
		Description:          input.Description,
		Organization:         orgID,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		RegistrationDeadline: input.RegistrationDeadline,
		Capacity:             capacity,
		Status:               status,
		IsPrivate:            input.IsPrivate,
		Location:             input.Location,
		Tags:                 input.Tags,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if session.Tags == nil {
		session.Tags = []string{}
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.broadcast.EnqueueSessionCreated(created.ID, created.Title, org.DisplayName())

	s.activity.Record(ctx, orgID, domain.RoleOrganization, domain.ActionSessionCreate, "session", created.ID, nil)

	s.log.Info().Str("session", created.ID).Str("organization", orgID).Msg("session created")
	return created, nil
}

// ListByOrganization returns the organization's own sessions.
func (s *SessionService) ListByOrganization(ctx context.Context, orgID string, sort string, limit int) ([]*domain.Session, error) {
	sessions, err := s.sessions.FindByOrganization(ctx, orgID, sort)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// Update applies a partial edit to a session owned by orgID.
func (s *SessionService) Update(ctx context.Context, orgID, sessionID string, input ports.UpdateSessionInput) (*domain.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if session.Organization != orgID {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil {
		session.Title = *input.Title
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.StartDate != nil {
		session.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		session.EndDate = *input.EndDate
	}
	if input.RegistrationDeadline != nil {
		session.RegistrationDeadline = *input.RegistrationDeadline
	}
	if input.Capacity != nil {
		session.Capacity = *input.Capacity
	}
	if input.Location != nil {
		session.Location = *input.Location
	}
	if input.Tags != nil {
		session.Tags = input.Tags
	}
	if input.IsPrivate != nil {
		session.IsPrivate = *input.IsPrivate
	}
	if input.Status != nil {
		if !domain.ValidSessionStatus(*input.Status) {
			return nil, fmt.Errorf("update session: unknown status %q", *input.Status)
		}
		session.Status = *input.Status
	}
	session.UpdatedAt = s.clock.Now().UTC()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

// Delete removes a session owned by orgID; its applications are deleted
// with it.
func (s *SessionService) Delete(ctx context.Context, orgID, sessionID string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if session.Organization != orgID {
		return domain.ErrForbidden
	}

	if err := s.apps.DeleteBySession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session applications: %w", err)
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.activity.Record(ctx, orgID, domain.RoleOrganization, domain.ActionSessionDelete, "session", sessionID, nil)

	s.log.Info().Str("session", sessionID).Str("organization", orgID).Msg("session deleted")
	return nil
}

var _ ports.SessionService = (*SessionService)(nil)
