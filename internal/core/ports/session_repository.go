package ports

import (
	"context"
	"time"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

// StatusCounterPatch is the set of counter deltas applied to a session as one
// atomic unit when an application's status changes. Modeled as an
// increment-style patch, not a read-modify-write of the whole document, so
// concurrent status updates on the same session cannot clobber each other.
type StatusCounterPatch struct {
	// CurrentDelta adjusts current_applications (+1 into Selected, -1 out of it).
	CurrentDelta int
	// StatsDelta adjusts applicant_stats fields, keyed by status stats key.
	StatsDelta map[string]int
	// GuardCapacity makes the patch conditional: it is applied only while
	// current_applications < capacity. A guarded patch that matches no
	// document on an existing session means the capacity check failed and
	// nothing was mutated.
	GuardCapacity bool
}

// DiscoverFilter carries the discovery query. The repository applies all
// filters and the sort; pagination happens afterwards in the service.
type DiscoverFilter struct {
	Search    string    // case-insensitive match on title, description or tags
	Tags      []string  // tag-set membership
	StartFrom time.Time // start_date >= StartFrom
	StartTo   time.Time // start_date <= StartTo
	Location  string    // case-insensitive substring on location
	Sort      string    // "createdAt", "-createdAt", "startDate", "-startDate"
	Now       time.Time // registration_deadline >= Now
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	FindByOrganization(ctx context.Context, orgID string, sort string) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error

	// ApplyStatusCounters applies the patch atomically. Returns
	// domain.ErrCapacityExceeded when a guarded patch finds the session full,
	// domain.ErrSessionNotFound when the session is missing.
	ApplyStatusCounters(ctx context.Context, sessionID string, patch StatusCounterPatch) error

	// FindDiscoverable returns all public Active sessions whose registration
	// deadline has not passed, filtered and sorted per filter.
	FindDiscoverable(ctx context.Context, filter DiscoverFilter) ([]*domain.Session, error)

	// FindUpcoming returns Active sessions among ids whose start date falls in
	// (from, to]. Used by the reminder check.
	FindUpcoming(ctx context.Context, ids []string, from, to time.Time) ([]*domain.Session, error)
}
