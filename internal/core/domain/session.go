package domain

import (
	"errors"
	"time"
)

// SessionStatus represents the lifecycle state of an onboarding session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "Active"
	SessionCompleted SessionStatus = "Completed"
	SessionCancelled SessionStatus = "Cancelled"
	SessionClosed    SessionStatus = "Closed"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrPrivateSession = errors.New("session is private")
var ErrDeadlinePassed = errors.New("registration deadline has passed")
var ErrCapacityExceeded = errors.New("session is at full capacity")
var ErrForbidden = errors.New("access forbidden")

// ValidSessionStatus reports whether s is one of the known session states.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionActive, SessionCompleted, SessionCancelled, SessionClosed:
		return true
	}
	return false
}

// ApplicantStats holds the per-status applicant counts maintained alongside
// capacity. Invariant: the sum of all fields equals the total number of
// applications on the session.
type ApplicantStats struct {
	Pending     int `json:"pending" bson:"pending"`
	Shortlisted int `json:"shortlisted" bson:"shortlisted"`
	Selected    int `json:"selected" bson:"selected"`
	Rejected    int `json:"rejected" bson:"rejected"`
}

// Total returns the sum of all per-status counts.
func (s ApplicantStats) Total() int {
	return s.Pending + s.Shortlisted + s.Selected + s.Rejected
}

// Session is an onboarding opportunity posted by exactly one organization.
//
// CurrentApplications is derived state: it always equals the number of
// applications on the session in Selected status, and never exceeds Capacity
// when a transition moves an application into Selected.
type Session struct {
	ID                   string         `json:"id" bson:"_id,omitempty"`
	Title                string         `json:"title" bson:"title"`
	Description          string         `json:"description" bson:"description"`
	Organization         string         `json:"organization" bson:"organization"`
	StartDate            time.Time      `json:"start_date" bson:"start_date"`
	EndDate              time.Time      `json:"end_date" bson:"end_date"`
	RegistrationDeadline time.Time      `json:"registration_deadline" bson:"registration_deadline"`
	Capacity             int            `json:"capacity" bson:"capacity"`
	CurrentApplications  int            `json:"current_applications" bson:"current_applications"`
	Status               SessionStatus  `json:"status" bson:"status"`
	IsPrivate            bool           `json:"is_private" bson:"is_private"`
	Location             string         `json:"location" bson:"location"`
	Tags                 []string       `json:"tags" bson:"tags"`
	ApplicantStats       ApplicantStats `json:"applicant_stats" bson:"applicant_stats"`
	CreatedAt            time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsOpen reports whether the session still accepts new applications.
func (s *Session) IsOpen(now time.Time) bool {
	return s.Status == SessionActive &&
		s.RegistrationDeadline.After(now) &&
		s.CurrentApplications < s.Capacity
}
