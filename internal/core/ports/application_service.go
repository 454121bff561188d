package ports

import (
	"context"
	"time"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// ApplicationView is a job seeker's view of one of their applications.
type ApplicationView struct {
	ID           string
	SessionID    string
	SessionTitle string
	Organization string
	Status       domain.ApplicationStatus
	DateApplied  time.Time
}

// OrgApplicationView is an organization's view of an incoming application.
type OrgApplicationView struct {
	ID             string
	SessionID      string
	SessionTitle   string
	JobSeekerID    string
	JobSeekerName  string
	JobSeekerEmail string
	Status         domain.ApplicationStatus
	DateApplied    time.Time
}

// ApplicationService is the capacity & status engine: the single authority
// for creating applications and changing their status while keeping session
// aggregate counters correct.
type ApplicationService interface {
	// Submit creates a Pending application for (jobSeekerID, sessionID).
	Submit(ctx context.Context, jobSeekerID, sessionID string) (*domain.Application, error)

	// UpdateStatus transitions an application to newStatus on behalf of the
	// organization owning the session. Same-status updates succeed as no-ops.
	UpdateStatus(ctx context.Context, actorOrgID, applicationID string, newStatus domain.ApplicationStatus) (*domain.Application, error)

	// ListForJobSeeker returns the caller's applications with session titles.
	ListForJobSeeker(ctx context.Context, jobSeekerID string, filter ApplicationsFilter) ([]ApplicationView, error)

	// ListForOrganization returns applications across all of the caller's
	// sessions, with applicant display info resolved.
	ListForOrganization(ctx context.Context, orgID string, filter ApplicationsFilter) ([]OrgApplicationView, error)
}
