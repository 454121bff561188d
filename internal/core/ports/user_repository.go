package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindActiveJobSeekers returns every user with the job_seeker role whose
	// account has not been closed. Used by the session-created fan-out.
	FindActiveJobSeekers(ctx context.Context) ([]*domain.User, error)
	// Deactivate soft-closes an account (is_active=false, never deleted).
	Deactivate(ctx context.Context, id string) error
}
