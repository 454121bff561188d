package ports

import (
	"context"
	"time"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// CreateSessionInput carries all data needed to create a session.
type CreateSessionInput struct {
	Title                string
	Description          string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	Capacity             int // 0 = default (50)
	Location             string
	Tags                 []string
	IsPrivate            bool
	Status               domain.SessionStatus // empty = Active
}

// UpdateSessionInput carries a partial session edit; nil fields are left
// untouched.
type UpdateSessionInput struct {
	Title                *string
	Description          *string
	StartDate            *time.Time
	EndDate              *time.Time
	RegistrationDeadline *time.Time
	Capacity             *int
	Location             *string
	Tags                 []string
	IsPrivate            *bool
	Status               *domain.SessionStatus
}

// SessionService covers the organization-side session lifecycle.
type SessionService interface {
	Create(ctx context.Context, orgID string, input CreateSessionInput) (*domain.Session, error)
	ListByOrganization(ctx context.Context, orgID string, sort string, limit int) ([]*domain.Session, error)
	Update(ctx context.Context, orgID, sessionID string, input UpdateSessionInput) (*domain.Session, error)
	// Delete removes the session and cascades to its applications.
	Delete(ctx context.Context, orgID, sessionID string) error
}
