package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// WishlistService manages job-seeker bookmarks. Bookmarks never touch
// session counters.
type WishlistService struct {
	wishlists ports.WishlistRepository
	sessions  ports.SessionRepository
	users     ports.UserRepository
	log       zerolog.Logger
	clock     clockwork.Clock
}

func NewWishlistService(
	wishlists ports.WishlistRepository,
	sessions ports.SessionRepository,
	users ports.UserRepository,
	log zerolog.Logger,
	clock clockwork.Clock,
) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		sessions:  sessions,
		users:     users,
		log:       log,
		clock:     clock,
	}
}

// List returns the caller's bookmarks, newest first, with sessions and
// organization display info stitched in. Bookmarks whose session has since
// been deleted are silently dropped.
func (s *WishlistService) List(ctx context.Context, jobSeekerID string) ([]ports.WishlistView, error) {
	items, err := s.wishlists.FindByJobSeeker(ctx, jobSeekerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	views := make([]ports.WishlistView, 0, len(items))
	orgs := make(map[string]ports.OrganizationInfo)
	for _, item := range items {
		session, err := s.sessions.FindByID(ctx, item.Session)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return nil, fmt.Errorf("list wishlist: %w", err)
		}
		views = append(views, ports.WishlistView{
			ID:           item.ID,
			Session:      session,
			Organization: s.orgInfo(ctx, orgs, session.Organization),
			CreatedAt:    item.CreatedAt,
		})
	}
	return views, nil
}

// Add bookmarks a session. The storage-level unique index on
// (job_seeker, session) is the duplicate guard.
func (s *WishlistService) Add(ctx context.Context, jobSeekerID, sessionID string) (*ports.WishlistView, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	item := &domain.WishlistItem{
		JobSeeker: jobSeekerID,
		Session:   sessionID,
		CreatedAt: s.clock.Now().UTC(),
	}
	created, err := s.wishlists.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	return &ports.WishlistView{
		ID:           created.ID,
		Session:      session,
		Organization: s.orgInfo(ctx, nil, session.Organization),
		CreatedAt:    created.CreatedAt,
	}, nil
}

// Remove deletes a bookmark.
func (s *WishlistService) Remove(ctx context.Context, jobSeekerID, sessionID string) error {
	return s.wishlists.Delete(ctx, jobSeekerID, sessionID)
}

func (s *WishlistService) orgInfo(ctx context.Context, cache map[string]ports.OrganizationInfo, orgID string) ports.OrganizationInfo {
	if cache != nil {
		if info, ok := cache[orgID]; ok {
			return info
		}
	}
	info := ports.OrganizationInfo{ID: orgID, CompanyName: "Organization"}
	if org, err := s.users.FindByID(ctx, orgID); err == nil {
		info.CompanyName = org.DisplayName()
		info.LogoURL = org.Profile.LogoURL
	}
	if cache != nil {
		cache[orgID] = info
	}
	return info
}

var _ ports.WishlistService = (*WishlistService)(nil)
