package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// ApplicationsFilter carries list parameters for application queries.
type ApplicationsFilter struct {
	Status string // optional; internal status name, empty or "All" = no filter
	Sort   string // "dateApplied" or "-dateApplied" (default)
	Limit  int    // 0 = no limit
}

// ApplicationRepository defines persistence operations for applications.
// The (job_seeker, session) pair is unique at the storage layer; Create
// returns domain.ErrDuplicateApplication on a duplicate insert regardless of
// timing, closing the check-then-insert race.
type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	FindPair(ctx context.Context, jobSeekerID, sessionID string) (*domain.Application, error)
	FindByJobSeeker(ctx context.Context, jobSeekerID string, filter ApplicationsFilter) ([]*domain.Application, error)
	FindBySessions(ctx context.Context, sessionIDs []string, filter ApplicationsFilter) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
	// Delete removes a single application. Used to unwind a submit whose
	// counter patch could not be applied.
	Delete(ctx context.Context, id string) error
	// DeleteBySession removes all applications of a session (cascade delete).
	DeleteBySession(ctx context.Context, sessionID string) error
}
