package handler

import (
	"testing"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

func TestStatusMapping_RoundTrip(t *testing.T) {
	cases := []struct {
		external string
		internal domain.ApplicationStatus
	}{
		{"Pending", domain.StatusPending},
		{"Shortlisted", domain.StatusShortlisted},
		{"Approved", domain.StatusSelected},
		{"Rejected", domain.StatusRejected},
	}

	for _, tc := range cases {
		if got := toInternalStatus(tc.external); got != tc.internal {
			t.Errorf("toInternalStatus(%q) = %q, want %q", tc.external, got, tc.internal)
		}
		if got := toExternalStatus(tc.internal); got != tc.external {
			t.Errorf("toExternalStatus(%q) = %q, want %q", tc.internal, got, tc.external)
		}
	}
}

func TestStatusMapping_SelectedNeverLeaks(t *testing.T) {
	if got := toExternalStatus(domain.StatusSelected); got == string(domain.StatusSelected) {
		t.Fatalf("internal name leaked to the API: %q", got)
	}
}
