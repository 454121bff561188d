package ports

import (
	"context"
	"time"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// WishlistView is a bookmark joined with its session and the posting
// organization's display info.
type WishlistView struct {
	ID           string
	Session      *domain.Session
	Organization OrganizationInfo
	CreatedAt    time.Time
}

// WishlistService manages a job seeker's bookmarks.
type WishlistService interface {
	List(ctx context.Context, jobSeekerID string) ([]WishlistView, error)
	Add(ctx context.Context, jobSeekerID, sessionID string) (*WishlistView, error)
	Remove(ctx context.Context, jobSeekerID, sessionID string) error
}
