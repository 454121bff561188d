package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// WishlistRepository defines persistence operations for wishlist bookmarks.
// The (job_seeker, session) pair is unique at the storage layer.
type WishlistRepository interface {
	Create(ctx context.Context, item *domain.WishlistItem) (*domain.WishlistItem, error)
	FindByJobSeeker(ctx context.Context, jobSeekerID string) ([]*domain.WishlistItem, error)
	// Delete removes the bookmark for (jobSeekerID, sessionID); returns
	// domain.ErrWishlistNotFound when no such bookmark exists.
	Delete(ctx context.Context, jobSeekerID, sessionID string) error
}

// ActivityRepository appends audit entries. Entries are never read back by
// the engine and never mutated.
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityEntry) error
}
