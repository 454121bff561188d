package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// RegisterInput carries registration data; FullName applies to job seekers,
// CompanyName to organizations.
type RegisterInput struct {
	Email       string
	Password    string
	Role        string
	FullName    string
	CompanyName string
}

// AuthService is the credential/identity collaborator: registration, login
// (yielding a signed token with user id + role), and soft account close.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Close(ctx context.Context, userID string) error
}
