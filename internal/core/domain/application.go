package domain

import (
	"errors"
	"time"
)

// ApplicationStatus represents the review state of an application.
// Selected is surfaced to clients as "Approved"; the mapping lives at the
// transport boundary, internals only ever see these four values.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusShortlisted ApplicationStatus = "Shortlisted"
	StatusSelected    ApplicationStatus = "Selected"
	StatusRejected    ApplicationStatus = "Rejected"
)

var ErrApplicationNotFound = errors.New("application not found")
var ErrDuplicateApplication = errors.New("application already exists for this session")
var ErrInvalidStatus = errors.New("invalid application status")

// Valid reports whether s is one of the four review states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// StatsKey returns the ApplicantStats field key for this status
// ("pending", "shortlisted", "selected", "rejected").
func (s ApplicationStatus) StatsKey() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusShortlisted:
		return "shortlisted"
	case StatusSelected:
		return "selected"
	case StatusRejected:
		return "rejected"
	}
	return ""
}

// Application is the unique pairing of a job seeker and a session.
// DateApplied is set once at creation and never mutated.
type Application struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	JobSeeker        string            `json:"job_seeker" bson:"job_seeker"`
	Session          string            `json:"session" bson:"session"`
	Status           ApplicationStatus `json:"status" bson:"status"`
	OrganizationName string            `json:"organization_name" bson:"organization_name"`
	DateApplied      time.Time         `json:"date_applied" bson:"date_applied"`
}
