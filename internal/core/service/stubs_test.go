package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the guarantees of the real Mongo
// repositories: unique (jobSeeker, session) pairs, atomic guarded counter
// patches, cascade deletes.
// ---------------------------------------------------------------------------

type stubSessionRepo struct {
	byID        map[string]*domain.Session
	nextID      int
	findErr     error
	countersErr error                      // injected ApplyStatusCounters failure
	applied     []ports.StatusCounterPatch // every patch that mutated counters
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byID: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) put(s *domain.Session) *domain.Session {
	if s.ID == "" {
		r.nextID++
		s.ID = fmt.Sprintf("sess_%d", r.nextID)
	}
	clone := *s
	r.byID[s.ID] = &clone
	return &clone
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) (*domain.Session, error) {
	return r.put(s), nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) FindByOrganization(_ context.Context, orgID string, _ string) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range r.byID {
		if s.Organization == orgID {
			clone := *s
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubSessionRepo) Update(_ context.Context, s *domain.Session) error {
	if _, ok := r.byID[s.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubSessionRepo) ApplyStatusCounters(_ context.Context, sessionID string, patch ports.StatusCounterPatch) error {
	if r.countersErr != nil {
		return r.countersErr
	}
	s, ok := r.byID[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if patch.GuardCapacity && s.CurrentApplications >= s.Capacity {
		return domain.ErrCapacityExceeded
	}
	s.CurrentApplications += patch.CurrentDelta
	for key, delta := range patch.StatsDelta {
		switch key {
		case "pending":
			s.ApplicantStats.Pending += delta
		case "shortlisted":
			s.ApplicantStats.Shortlisted += delta
		case "selected":
			s.ApplicantStats.Selected += delta
		case "rejected":
			s.ApplicantStats.Rejected += delta
		}
	}
	r.applied = append(r.applied, patch)
	return nil
}

func (r *stubSessionRepo) FindDiscoverable(_ context.Context, f ports.DiscoverFilter) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range r.byID {
		if s.IsPrivate || s.Status != domain.SessionActive || s.RegistrationDeadline.Before(f.Now) {
			continue
		}
		if f.Search != "" && !matchesSearch(s, f.Search) {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(s.Tags, f.Tags) {
			continue
		}
		if !f.StartFrom.IsZero() && s.StartDate.Before(f.StartFrom) {
			continue
		}
		if !f.StartTo.IsZero() && s.StartDate.After(f.StartTo) {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(s.Location), strings.ToLower(f.Location)) {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case "createdAt":
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case "startDate":
			return out[i].StartDate.Before(out[j].StartDate)
		case "-startDate":
			return out[i].StartDate.After(out[j].StartDate)
		default: // "-createdAt"
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (r *stubSessionRepo) FindUpcoming(_ context.Context, ids []string, from, to time.Time) ([]*domain.Session, error) {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	var out []*domain.Session
	for _, s := range r.byID {
		if _, ok := idSet[s.ID]; !ok {
			continue
		}
		if s.Status != domain.SessionActive {
			continue
		}
		if s.StartDate.After(from) && !s.StartDate.After(to) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func matchesSearch(s *domain.Session, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(s.Title), needle) || strings.Contains(strings.ToLower(s.Description), needle) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

type stubApplicationRepo struct {
	byID            map[string]*domain.Application
	nextID          int
	updateStatusErr error
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{byID: make(map[string]*domain.Application)}
}

func (r *stubApplicationRepo) Create(_ context.Context, a *domain.Application) (*domain.Application, error) {
	for _, existing := range r.byID {
		if existing.JobSeeker == a.JobSeeker && existing.Session == a.Session {
			return nil, domain.ErrDuplicateApplication
		}
	}
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("app_%d", r.nextID)
	r.byID[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApplicationRepo) FindPair(_ context.Context, jobSeekerID, sessionID string) (*domain.Application, error) {
	for _, a := range r.byID {
		if a.JobSeeker == jobSeekerID && a.Session == sessionID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubApplicationRepo) FindByJobSeeker(_ context.Context, jobSeekerID string, filter ports.ApplicationsFilter) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.byID {
		if a.JobSeeker != jobSeekerID {
			continue
		}
		if filter.Status != "" && filter.Status != "All" && string(a.Status) != filter.Status {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sortApplications(out, filter.Sort)
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *stubApplicationRepo) FindBySessions(_ context.Context, sessionIDs []string, filter ports.ApplicationsFilter) ([]*domain.Application, error) {
	idSet := make(map[string]struct{}, len(sessionIDs))
	for _, id := range sessionIDs {
		idSet[id] = struct{}{}
	}
	var out []*domain.Application
	for _, a := range r.byID {
		if _, ok := idSet[a.Session]; !ok {
			continue
		}
		if filter.Status != "" && filter.Status != "All" && string(a.Status) != filter.Status {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sortApplications(out, filter.Sort)
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (r *stubApplicationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrApplicationNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubApplicationRepo) DeleteBySession(_ context.Context, sessionID string) error {
	for id, a := range r.byID {
		if a.Session == sessionID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *stubApplicationRepo) countBySessionStatus(sessionID string, status domain.ApplicationStatus) int {
	n := 0
	for _, a := range r.byID {
		if a.Session == sessionID && a.Status == status {
			n++
		}
	}
	return n
}

func (r *stubApplicationRepo) countBySession(sessionID string) int {
	n := 0
	for _, a := range r.byID {
		if a.Session == sessionID {
			n++
		}
	}
	return n
}

func sortApplications(apps []*domain.Application, sortParam string) {
	sort.Slice(apps, func(i, j int) bool {
		if sortParam == "dateApplied" {
			return apps[i].DateApplied.Before(apps[j].DateApplied)
		}
		return apps[i].DateApplied.After(apps[j].DateApplied)
	})
}

type stubUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user_%d", r.nextID)
	}
	clone := *u
	r.byID[u.ID] = &clone
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	return r.put(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindActiveJobSeekers(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if u.Role == domain.RoleJobSeeker && u.IsActive {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

type stubNotificationRepo struct {
	byID      map[string]*domain.Notification
	nextID    int
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *n
	clone.ID = fmt.Sprintf("ntf_%d", r.nextID)
	r.byID[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *stubNotificationRepo) List(_ context.Context, userID string, page, limit int, unreadOnly bool) (*ports.NotificationPage, error) {
	var items []*domain.Notification
	var unread int64
	for _, n := range r.byID {
		if n.User != userID {
			continue
		}
		if !n.Read {
			unread++
		}
		if unreadOnly && n.Read {
			continue
		}
		clone := *n
		items = append(items, &clone)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	total := int64(len(items))
	start := (page - 1) * limit
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return &ports.NotificationPage{
		Items:       items[start:end],
		Total:       total,
		UnreadCount: unread,
		Page:        page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := r.byID[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.byID {
		if n.User == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) ReminderExists(_ context.Context, userID string, typ domain.NotificationType, title, message string) (bool, error) {
	for _, n := range r.byID {
		if n.User == userID && n.Type == typ && n.Title == title && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubNotificationRepo) countForUser(userID string) int {
	n := 0
	for _, ntf := range r.byID {
		if ntf.User == userID {
			n++
		}
	}
	return n
}

type stubWishlistRepo struct {
	byID   map[string]*domain.WishlistItem
	nextID int
}

func newStubWishlistRepo() *stubWishlistRepo {
	return &stubWishlistRepo{byID: make(map[string]*domain.WishlistItem)}
}

func (r *stubWishlistRepo) Create(_ context.Context, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	for _, existing := range r.byID {
		if existing.JobSeeker == item.JobSeeker && existing.Session == item.Session {
			return nil, domain.ErrDuplicateWishlist
		}
	}
	r.nextID++
	clone := *item
	clone.ID = fmt.Sprintf("wsh_%d", r.nextID)
	r.byID[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *stubWishlistRepo) FindByJobSeeker(_ context.Context, jobSeekerID string) ([]*domain.WishlistItem, error) {
	var out []*domain.WishlistItem
	for _, item := range r.byID {
		if item.JobSeeker == jobSeekerID {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubWishlistRepo) Delete(_ context.Context, jobSeekerID, sessionID string) error {
	for id, item := range r.byID {
		if item.JobSeeker == jobSeekerID && item.Session == sessionID {
			delete(r.byID, id)
			return nil
		}
	}
	return domain.ErrWishlistNotFound
}

type stubActivityRepo struct {
	entries []*domain.ActivityEntry
}

func (r *stubActivityRepo) Append(_ context.Context, entry *domain.ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

// stubPusher records pushes and can be made to fail for specific users.
type stubPusher struct {
	pushed  []string // user ids in push order
	failFor map[string]bool
}

func (p *stubPusher) Push(_ context.Context, userID string, _ *domain.Notification) error {
	p.pushed = append(p.pushed, userID)
	if p.failFor[userID] {
		return fmt.Errorf("connection closed")
	}
	return nil
}

// stubBroadcastQueue records enqueued fan-out jobs without running them.
type stubBroadcastQueue struct {
	jobs []string // session ids
}

func (q *stubBroadcastQueue) EnqueueSessionCreated(sessionID, _, _ string) {
	q.jobs = append(q.jobs, sessionID)
}
