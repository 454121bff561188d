package ports

import (
	"context"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// OrganizationInfo is the resolved display info stitched onto discovery results.
type OrganizationInfo struct {
	ID          string
	CompanyName string
	LogoURL     string
}

// AnnotatedSession is a session enriched with viewer-specific annotations.
// For anonymous or non-job-seeker viewers the annotations are fixed to
// HasApplied=false, ApplicationStatus=nil, IsInWishlist=false.
type AnnotatedSession struct {
	Session           *domain.Session
	Organization      OrganizationInfo
	HasApplied        bool
	ApplicationStatus *domain.ApplicationStatus
	IsInWishlist      bool
}

// DiscoverInput carries the discovery query plus the optional viewer.
type DiscoverInput struct {
	ViewerID  string // empty = anonymous
	Search    string
	Tags      []string
	StartFrom string // RFC3339 or date-only; empty = unbounded
	StartTo   string
	Location  string
	Sort      string
	Page      int
	Limit     int
}

// Pagination describes the page window of a discovery result.
type Pagination struct {
	CurrentPage   int
	TotalPages    int
	TotalSessions int
	HasMore       bool
}

// DiscoverResult is one page of annotated sessions.
type DiscoverResult struct {
	Sessions   []AnnotatedSession
	Pagination Pagination
}

// DiscoveryService produces viewer-aware, filtered, paginated session
// listings without leaking private sessions.
type DiscoveryService interface {
	Discover(ctx context.Context, input DiscoverInput) (*DiscoverResult, error)
	// Details returns a single session with the same annotation logic.
	// Private sessions stay reachable by direct id (the original behavior);
	// discovery never lists them.
	Details(ctx context.Context, sessionID, viewerID string) (*AnnotatedSession, error)
}
