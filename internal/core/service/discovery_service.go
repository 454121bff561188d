package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

const defaultDiscoverLimit = 12

// DiscoveryService answers viewer-aware session queries. Reads go straight
// to the repositories; annotations are computed against the viewer's own
// applications and wishlist.
type DiscoveryService struct {
	sessions  ports.SessionRepository
	apps      ports.ApplicationRepository
	wishlists ports.WishlistRepository
	users     ports.UserRepository
	log       zerolog.Logger
	clock     clockwork.Clock
}

func NewDiscoveryService(
	sessions ports.SessionRepository,
	apps ports.ApplicationRepository,
	wishlists ports.WishlistRepository,
	users ports.UserRepository,
	log zerolog.Logger,
	clock clockwork.Clock,
) *DiscoveryService {
	return &DiscoveryService{
		sessions:  sessions,
		apps:      apps,
		wishlists: wishlists,
		users:     users,
		log:       log,
		clock:     clock,
	}
}

// Discover lists public Active sessions with open registration, filtered and
// sorted, annotated for the viewer, and paginated after the full filter+sort.
func (s *DiscoveryService) Discover(ctx context.Context, input ports.DiscoverInput) (*ports.DiscoverResult, error) {
	filter := ports.DiscoverFilter{
		Search:   input.Search,
		Tags:     input.Tags,
		Location: input.Location,
		Sort:     input.Sort,
		Now:      s.clock.Now(),
	}
	if t, ok := parseDate(input.StartFrom); ok {
		filter.StartFrom = t
	}
	if t, ok := parseDate(input.StartTo); ok {
		filter.StartTo = t
	}

	sessions, err := s.sessions.FindDiscoverable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("discover sessions: %w", err)
	}

	annotations := s.viewerAnnotations(ctx, input.ViewerID)

	annotated := make([]ports.AnnotatedSession, 0, len(sessions))
	orgs := make(map[string]ports.OrganizationInfo)
	for _, session := range sessions {
		annotated = append(annotated, ports.AnnotatedSession{
			Session:           session,
			Organization:      s.organizationInfo(ctx, orgs, session.Organization),
			HasApplied:        annotations.hasApplied(session.ID),
			ApplicationStatus: annotations.status(session.ID),
			IsInWishlist:      annotations.inWishlist(session.ID),
		})
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultDiscoverLimit
	}

	total := len(annotated)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := (total + limit - 1) / limit
	return &ports.DiscoverResult{
		Sessions: annotated[start:end],
		Pagination: ports.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalSessions: total,
			HasMore:       end < total,
		},
	}, nil
}

// Details returns a single session with the same viewer annotation logic.
func (s *DiscoveryService) Details(ctx context.Context, sessionID, viewerID string) (*ports.AnnotatedSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session details: %w", err)
	}

	annotated := ports.AnnotatedSession{
		Session:      session,
		Organization: s.organizationInfo(ctx, nil, session.Organization),
	}

	if viewerID != "" {
		viewer, err := s.users.FindByID(ctx, viewerID)
		if err == nil && viewer.Role == domain.RoleJobSeeker {
			if app, err := s.apps.FindPair(ctx, viewerID, sessionID); err == nil && app != nil {
				annotated.HasApplied = true
				status := app.Status
				annotated.ApplicationStatus = &status
			}
			if items, err := s.wishlists.FindByJobSeeker(ctx, viewerID); err == nil {
				for _, item := range items {
					if item.Session == sessionID {
						annotated.IsInWishlist = true
						break
					}
				}
			}
		}
	}

	return &annotated, nil
}

// viewerMaps caches a job-seeker viewer's applications and wishlist for
// annotating a result list.
type viewerMaps struct {
	statuses map[string]domain.ApplicationStatus
	wishlist map[string]struct{}
}

func (m viewerMaps) hasApplied(sessionID string) bool {
	_, ok := m.statuses[sessionID]
	return ok
}

func (m viewerMaps) status(sessionID string) *domain.ApplicationStatus {
	if status, ok := m.statuses[sessionID]; ok {
		return &status
	}
	return nil
}

func (m viewerMaps) inWishlist(sessionID string) bool {
	_, ok := m.wishlist[sessionID]
	return ok
}

func (s *DiscoveryService) viewerAnnotations(ctx context.Context, viewerID string) viewerMaps {
	maps := viewerMaps{
		statuses: map[string]domain.ApplicationStatus{},
		wishlist: map[string]struct{}{},
	}
	if viewerID == "" {
		return maps
	}
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil || viewer.Role != domain.RoleJobSeeker {
		return maps
	}

	apps, err := s.apps.FindByJobSeeker(ctx, viewerID, ports.ApplicationsFilter{})
	if err != nil {
		s.log.Warn().Err(err).Str("viewer", viewerID).Msg("failed to load viewer applications")
	}
	for _, app := range apps {
		maps.statuses[app.Session] = app.Status
	}

	items, err := s.wishlists.FindByJobSeeker(ctx, viewerID)
	if err != nil {
		s.log.Warn().Err(err).Str("viewer", viewerID).Msg("failed to load viewer wishlist")
	}
	for _, item := range items {
		maps.wishlist[item.Session] = struct{}{}
	}
	return maps
}

// organizationInfo resolves display info for an organization, memoized in
// cache when the caller annotates a whole list.
func (s *DiscoveryService) organizationInfo(ctx context.Context, cache map[string]ports.OrganizationInfo, orgID string) ports.OrganizationInfo {
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

// parseDate accepts RFC3339 or date-only values from query parameters.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

var _ ports.DiscoveryService = (*DiscoveryService)(nil)
