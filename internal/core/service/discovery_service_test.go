package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

type discoveryFixture struct {
	discovery *DiscoveryService
	sessions  *stubSessionRepo
	apps      *stubApplicationRepo
	wishlists *stubWishlistRepo
	users     *stubUserRepo
	clock     *clockwork.FakeClock
	org       *domain.User
}

func newDiscoveryFixture(t *testing.T) *discoveryFixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sessions := newStubSessionRepo()
	apps := newStubApplicationRepo()
	wishlists := newStubWishlistRepo()
	users := newStubUserRepo()

	org := users.put(&domain.User{
		Email:    "hire@acme.test",
		Role:     domain.RoleOrganization,
		Profile:  domain.Profile{CompanyName: "Acme Corp", LogoURL: "https://acme.test/logo.png"},
		IsActive: true,
	})

	return &discoveryFixture{
		discovery: NewDiscoveryService(sessions, apps, wishlists, users, discardLogger, clock),
		sessions:  sessions,
		apps:      apps,
		wishlists: wishlists,
		users:     users,
		clock:     clock,
		org:       org,
	}
}

func (f *discoveryFixture) addSession(title string, mutate func(*domain.Session)) *domain.Session {
	now := f.clock.Now()
	s := &domain.Session{
		Title:                title,
		Description:          "hands-on onboarding",
		Organization:         f.org.ID,
		StartDate:            now.Add(72 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
		RegistrationDeadline: now.Add(48 * time.Hour),
		Capacity:             20,
		Status:               domain.SessionActive,
		CreatedAt:            now,
	}
	if mutate != nil {
		mutate(s)
	}
	return f.sessions.put(s)
}

func TestDiscover_ExcludesPrivateClosedAndExpired(t *testing.T) {
	f := newDiscoveryFixture(t)
	open := f.addSession("Open", nil)
	f.addSession("Private", func(s *domain.Session) { s.IsPrivate = true })
	f.addSession("Completed", func(s *domain.Session) { s.Status = domain.SessionCompleted })
	f.addSession("Expired", func(s *domain.Session) {
		s.RegistrationDeadline = f.clock.Now().Add(-time.Hour)
	})

	result, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("expected 1 discoverable session, got %d", len(result.Sessions))
	}
	if result.Sessions[0].Session.ID != open.ID {
		t.Errorf("wrong session surfaced: %s", result.Sessions[0].Session.Title)
	}
}

func TestDiscover_SearchAndTagFilters(t *testing.T) {
	f := newDiscoveryFixture(t)
	f.addSession("Backend Bootcamp", func(s *domain.Session) { s.Tags = []string{"go", "api"} })
	f.addSession("Frontend Workshop", func(s *domain.Session) { s.Tags = []string{"react"} })
	f.addSession("Data Pipeline Intro", func(s *domain.Session) { s.Description = "kafka and go streams" })

	bySearch, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Search: "go"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(bySearch.Sessions) != 2 {
		t.Errorf("search 'go' matched %d sessions, want 2 (title/description/tags)", len(bySearch.Sessions))
	}

	byTag, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Tags: []string{"react"}})
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	if len(byTag.Sessions) != 1 || byTag.Sessions[0].Session.Title != "Frontend Workshop" {
		t.Errorf("tag filter failed: %d sessions", len(byTag.Sessions))
	}
}

func TestDiscover_DateRangeAndLocation(t *testing.T) {
	f := newDiscoveryFixture(t)
	f.addSession("Soon", func(s *domain.Session) {
		s.StartDate = f.clock.Now().Add(24 * time.Hour)
		s.RegistrationDeadline = f.clock.Now().Add(12 * time.Hour)
		s.Location = "Berlin"
	})
	f.addSession("Later", func(s *domain.Session) {
		s.StartDate = f.clock.Now().Add(240 * time.Hour)
		s.RegistrationDeadline = f.clock.Now().Add(200 * time.Hour)
		s.Location = "Remote"
	})

	from := f.clock.Now().Add(100 * time.Hour).Format(time.RFC3339)
	result, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{StartFrom: from})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(result.Sessions) != 1 || result.Sessions[0].Session.Title != "Later" {
		t.Fatalf("startFrom filter failed: %d sessions", len(result.Sessions))
	}

	byLocation, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Location: "berlin"})
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if len(byLocation.Sessions) != 1 || byLocation.Sessions[0].Session.Title != "Soon" {
		t.Fatalf("location filter failed: %d sessions", len(byLocation.Sessions))
	}
}

func TestDiscover_SortOrders(t *testing.T) {
	f := newDiscoveryFixture(t)
	for i := 0; i < 3; i++ {
		i := i
		f.addSession(fmt.Sprintf("Session %d", i), func(s *domain.Session) {
			s.CreatedAt = f.clock.Now().Add(time.Duration(i) * time.Hour)
			s.StartDate = f.clock.Now().Add(time.Duration(72-i) * time.Hour)
		})
	}

	newest, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{})
	if err != nil {
		t.Fatalf("default sort: %v", err)
	}
	if newest.Sessions[0].Session.Title != "Session 2" {
		t.Errorf("default sort must be newest first, got %q", newest.Sessions[0].Session.Title)
	}

	byStart, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Sort: "startDate"})
	if err != nil {
		t.Fatalf("startDate sort: %v", err)
	}
	if byStart.Sessions[0].Session.Title != "Session 2" {
		t.Errorf("startDate sort must be earliest start first, got %q", byStart.Sessions[0].Session.Title)
	}
}

func TestDiscover_PaginatesAfterFullFilter(t *testing.T) {
	f := newDiscoveryFixture(t)
	for i := 0; i < 30; i++ {
		i := i
		f.addSession(fmt.Sprintf("Session %02d", i), func(s *domain.Session) {
			s.CreatedAt = f.clock.Now().Add(time.Duration(i) * time.Minute)
		})
	}

	first, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first.Sessions) != 12 {
		t.Errorf("default page size is 12, got %d", len(first.Sessions))
	}
	if first.Pagination.TotalSessions != 30 || first.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want 30 total / 3 pages", first.Pagination)
	}
	if !first.Pagination.HasMore {
		t.Error("page 1 of 3 must report hasMore")
	}

	last, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Page: 3})
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(last.Sessions) != 6 {
		t.Errorf("last page should hold 6 sessions, got %d", len(last.Sessions))
	}
	if last.Pagination.HasMore {
		t.Error("last page must not report hasMore")
	}

	beyond, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{Page: 9})
	if err != nil {
		t.Fatalf("page beyond range: %v", err)
	}
	if len(beyond.Sessions) != 0 {
		t.Errorf("page beyond range must be empty, got %d", len(beyond.Sessions))
	}
}

func TestDiscover_AnnotatesJobSeekerViewer(t *testing.T) {
	f := newDiscoveryFixture(t)
	applied := f.addSession("Applied To", nil)
	wished := f.addSession("Wishlisted", nil)
	f.addSession("Untouched", nil)

	seeker := f.users.put(&domain.User{Email: "dana@example.test", Role: domain.RoleJobSeeker, IsActive: true})
	if _, err := f.apps.Create(context.Background(), &domain.Application{
		JobSeeker: seeker.ID, Session: applied.ID, Status: domain.StatusShortlisted,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	if _, err := f.wishlists.Create(context.Background(), &domain.WishlistItem{
		JobSeeker: seeker.ID, Session: wished.ID,
	}); err != nil {
		t.Fatalf("seed wishlist: %v", err)
	}

	result, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{ViewerID: seeker.ID})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	byID := make(map[string]ports.AnnotatedSession, len(result.Sessions))
	for _, s := range result.Sessions {
		byID[s.Session.ID] = s
	}

	got := byID[applied.ID]
	if !got.HasApplied || got.ApplicationStatus == nil || *got.ApplicationStatus != domain.StatusShortlisted {
		t.Errorf("applied session annotation wrong: %+v", got)
	}
	if !byID[wished.ID].IsInWishlist {
		t.Error("wishlisted session not flagged")
	}
	untouchedSeen := false
	for id, s := range byID {
		if id != applied.ID && id != wished.ID {
			untouchedSeen = true
			if s.HasApplied || s.IsInWishlist || s.ApplicationStatus != nil {
				t.Errorf("untouched session carries annotations: %+v", s)
			}
		}
	}
	if !untouchedSeen {
		t.Error("untouched session missing from result")
	}
}

func TestDiscover_AnonymousAndOrgViewersGetNoAnnotations(t *testing.T) {
	f := newDiscoveryFixture(t)
	f.addSession("Open", nil)

	anon, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{})
	if err != nil {
		t.Fatalf("anonymous discover: %v", err)
	}
	if anon.Sessions[0].HasApplied || anon.Sessions[0].IsInWishlist || anon.Sessions[0].ApplicationStatus != nil {
		t.Error("anonymous viewer must get zero-valued annotations")
	}

	asOrg, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{ViewerID: f.org.ID})
	if err != nil {
		t.Fatalf("org discover: %v", err)
	}
	if asOrg.Sessions[0].HasApplied || asOrg.Sessions[0].IsInWishlist {
		t.Error("organization viewer must get zero-valued annotations")
	}
}

func TestDiscover_StitchesOrganizationInfo(t *testing.T) {
	f := newDiscoveryFixture(t)
	f.addSession("Open", nil)

	result, err := f.discovery.Discover(context.Background(), ports.DiscoverInput{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	org := result.Sessions[0].Organization
	if org.CompanyName != "Acme Corp" || org.LogoURL != "https://acme.test/logo.png" {
		t.Errorf("organization info not stitched: %+v", org)
	}
}

func TestDetails_AnnotatedForViewer(t *testing.T) {
	f := newDiscoveryFixture(t)
	session := f.addSession("Open", nil)

	seeker := f.users.put(&domain.User{Email: "dana@example.test", Role: domain.RoleJobSeeker, IsActive: true})
	if _, err := f.apps.Create(context.Background(), &domain.Application{
		JobSeeker: seeker.ID, Session: session.ID, Status: domain.StatusPending,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	details, err := f.discovery.Details(context.Background(), session.ID, seeker.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if !details.HasApplied || details.ApplicationStatus == nil || *details.ApplicationStatus != domain.StatusPending {
		t.Errorf("viewer annotation missing on details: %+v", details)
	}
	if details.Organization.CompanyName != "Acme Corp" {
		t.Errorf("organization not resolved: %q", details.Organization.CompanyName)
	}
}

func TestDetails_NotFound(t *testing.T) {
	f := newDiscoveryFixture(t)

	_, err := f.discovery.Details(context.Background(), "missing", "")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
