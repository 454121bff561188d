package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// ApplicationService is the capacity & status engine. It is the only writer
// of application status and of the session counters derived from it; the two
// always change together through a single atomic counter patch.
type ApplicationService struct {
	apps     ports.ApplicationRepository
	sessions ports.SessionRepository
	users    ports.UserRepository
	notifier ports.NotificationService
	activity *ActivityRecorder
	log      zerolog.Logger
	clock    clockwork.Clock
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	sessions ports.SessionRepository,
	users ports.UserRepository,
	notifier ports.NotificationService,
	activity *ActivityRecorder,
	log zerolog.Logger,
	clock clockwork.Clock,
) *ApplicationService {
	return &ApplicationService{
		apps:     apps,
		sessions: sessions,
		users:    users,
		notifier: notifier,
		activity: activity,
		log:      log,
		clock:    clock,
	}
}

// Submit creates a Pending application for (jobSeekerID, sessionID).
//
// A Pending application does not count toward capacity; only Selected status
// does. The duplicate guard is the storage-level unique index on
// (job_seeker, session) — the FindPair pre-check only produces a friendlier
// early error and is never relied on for correctness.
func (s *ApplicationService) Submit(ctx context.Context, jobSeekerID, sessionID string) (*domain.Application, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	if session.IsPrivate {
		return nil, domain.ErrPrivateSession
	}

	now := s.clock.Now()
	if session.RegistrationDeadline.Before(now) {
		return nil, domain.ErrDeadlinePassed
	}
	if session.CurrentApplications >= session.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	if existing, err := s.apps.FindPair(ctx, jobSeekerID, sessionID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateApplication
	}

	orgName := "Organization"
	if org, err := s.users.FindByID(ctx, session.Organization); err == nil {
		orgName = org.DisplayName()
	}

	app := &domain.Application{
		JobSeeker:        jobSeekerID,
		Session:          sessionID,
		Status:           domain.StatusPending,
		OrganizationName: orgName,
		DateApplied:      now.UTC(),
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	// A new Pending application only moves applicantStats; capacity stays.
	// The record and the counters must land together or not at all: if the
	// patch fails, the insert is unwound and the whole submit fails.
	patch := ports.StatusCounterPatch{
		StatsDelta: map[string]int{domain.StatusPending.StatsKey(): 1},
	}
	if err := s.sessions.ApplyStatusCounters(ctx, sessionID, patch); err != nil {
		if delErr := s.apps.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("application", created.ID).Msg("submit compensation failed")
		}
		return nil, fmt.Errorf("submit application: %w", err)
	}

	s.activity.Record(ctx, jobSeekerID, domain.RoleJobSeeker, domain.ActionApplicationSubmit, "application", created.ID, map[string]string{"session": sessionID})

	s.log.Info().
		Str("event", "session_applied").
		Str("application", created.ID).
		Str("session", sessionID).
		Str("job_seeker", jobSeekerID).
		Msg("application submitted")

	return created, nil
}

// UpdateStatus transitions an application to newStatus on behalf of the
// organization that owns its session.
//
// The session counters and the application status must change together or
// not at all. The counter patch goes first because it carries the atomic
// capacity guard; if persisting the application status then fails, the patch
// is reversed so the counters never drift from reality.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actorOrgID, applicationID string, newStatus domain.ApplicationStatus) (*domain.Application, error) {
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	session, err := s.sessions.FindByID(ctx, app.Session)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if session.Organization != actorOrgID {
		return nil, domain.ErrForbidden
	}

	oldStatus := app.Status
	if oldStatus == newStatus {
		// Idempotent no-op: no counter mutation, no notification.
		return app, nil
	}

	patch := ports.StatusCounterPatch{
		StatsDelta: map[string]int{
			oldStatus.StatsKey(): -1,
			newStatus.StatsKey(): 1,
		},
	}
	switch {
	case newStatus == domain.StatusSelected && oldStatus != domain.StatusSelected:
		patch.CurrentDelta = 1
		patch.GuardCapacity = true
	case oldStatus == domain.StatusSelected && newStatus != domain.StatusSelected:
		patch.CurrentDelta = -1
	}

	if err := s.sessions.ApplyStatusCounters(ctx, session.ID, patch); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if err := s.apps.UpdateStatus(ctx, applicationID, newStatus); err != nil {
		// Roll the counters back so status and counters stay consistent.
		reverse := ports.StatusCounterPatch{
			CurrentDelta: -patch.CurrentDelta,
			StatsDelta: map[string]int{
				oldStatus.StatsKey(): 1,
				newStatus.StatsKey(): -1,
			},
		}
		if revErr := s.sessions.ApplyStatusCounters(ctx, session.ID, reverse); revErr != nil {
			s.log.Error().Err(revErr).Str("session", session.ID).Msg("counter compensation failed")
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	app.Status = newStatus

	s.log.Info().
		Str("event", "application_status_updated").
		Str("application", applicationID).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(newStatus)).
		Msg("application status updated")

	s.activity.Record(ctx, actorOrgID, domain.RoleOrganization, domain.ActionApplicationStatus, "application", applicationID, map[string]string{
		"old_status": string(oldStatus),
		"new_status": string(newStatus),
	})

	if _, err := s.notifier.Notify(ctx, app.JobSeeker, domain.NotificationStatusChange,
		"Application Status Updated",
		fmt.Sprintf("Your application for %q has been %s.", session.Title, statusVerb(newStatus)),
	); err != nil {
		s.log.Warn().Err(err).Str("application", applicationID).Msg("status change notification failed")
	}

	return app, nil
}

// ListForJobSeeker returns the caller's applications with session titles
// stitched in.
func (s *ApplicationService) ListForJobSeeker(ctx context.Context, jobSeekerID string, filter ports.ApplicationsFilter) ([]ports.ApplicationView, error) {
	apps, err := s.apps.FindByJobSeeker(ctx, jobSeekerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	views := make([]ports.ApplicationView, 0, len(apps))
	titles := make(map[string]string)
	for _, app := range apps {
		title, ok := titles[app.Session]
		if !ok {
			title = "Untitled Session"
			if session, err := s.sessions.FindByID(ctx, app.Session); err == nil {
				title = session.Title
			}
			titles[app.Session] = title
		}
		views = append(views, ports.ApplicationView{
			ID:           app.ID,
			SessionID:    app.Session,
			SessionTitle: title,
			Organization: app.OrganizationName,
			Status:       app.Status,
			DateApplied:  app.DateApplied,
		})
	}
	return views, nil
}

// ListForOrganization returns applications across all sessions owned by
// orgID, with applicant display info resolved.
func (s *ApplicationService) ListForOrganization(ctx context.Context, orgID string, filter ports.ApplicationsFilter) ([]ports.OrgApplicationView, error) {
	sessions, err := s.sessions.FindByOrganization(ctx, orgID, "")
	if err != nil {
		return nil, fmt.Errorf("list organization applications: %w", err)
	}

	ids := make([]string, 0, len(sessions))
	titles := make(map[string]string, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
		titles[session.ID] = session.Title
	}
	if len(ids) == 0 {
		return []ports.OrgApplicationView{}, nil
	}

	apps, err := s.apps.FindBySessions(ctx, ids, filter)
	if err != nil {
		return nil, fmt.Errorf("list organization applications: %w", err)
	}

	views := make([]ports.OrgApplicationView, 0, len(apps))
	seekers := make(map[string]*domain.User)
	for _, app := range apps {
		seeker, ok := seekers[app.JobSeeker]
		if !ok {
			seeker, _ = s.users.FindByID(ctx, app.JobSeeker)
			seekers[app.JobSeeker] = seeker
		}

		view := ports.OrgApplicationView{
			ID:           app.ID,
			SessionID:    app.Session,
			SessionTitle: titles[app.Session],
			JobSeekerID:  app.JobSeeker,
			Status:       app.Status,
			DateApplied:  app.DateApplied,
		}
		if seeker != nil {
			view.JobSeekerName = seeker.DisplayName()
			view.JobSeekerEmail = seeker.Email
		}
		views = append(views, view)
	}
	return views, nil
}

// statusVerb renders a status as the human verb used in notification text.
func statusVerb(status domain.ApplicationStatus) string {
	if status == domain.StatusSelected {
		return "approved"
	}
	return strings.ToLower(string(status))
}

var _ ports.ApplicationService = (*ApplicationService)(nil)
