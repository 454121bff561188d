package handler

import "github.com/onboardly/onboarding-system/internal/core/domain"

// The API says "Approved" where the engine says Selected. The rename exists
// only at the HTTP boundary; everything behind the handlers uses the internal
// name. These two functions are the only place the mapping lives.

const externalApproved = "Approved"

// toInternalStatus converts an API status value to the internal one.
func toInternalStatus(s string) domain.ApplicationStatus {
	if s == externalApproved {
		return domain.StatusSelected
	}
	return domain.ApplicationStatus(s)
}

// toExternalStatus converts an internal status to its API representation.
func toExternalStatus(s domain.ApplicationStatus) string {
	if s == domain.StatusSelected {
		return externalApproved
	}
	return string(s)
}
