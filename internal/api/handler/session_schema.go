package handler

import (
	"time"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

type createSessionRequest struct {
	Title                string    `json:"title" validate:"required"`
	Description          string    `json:"description"`
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline" validate:"required"`
	Capacity             int       `json:"capacity" validate:"gte=0"`
	Location             string    `json:"location"`
	Tags                 []string  `json:"tags"`
	IsPrivate            bool      `json:"is_private"`
	Status               string    `json:"status"`
}

func (r createSessionRequest) toInput() ports.CreateSessionInput {
	return ports.CreateSessionInput{
		Title:                r.Title,
		Description:          r.Description,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		RegistrationDeadline: r.RegistrationDeadline,
		Capacity:             r.Capacity,
		Location:             r.Location,
		Tags:                 r.Tags,
		IsPrivate:            r.IsPrivate,
		Status:               domain.SessionStatus(r.Status),
	}
}

type updateSessionRequest struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	Capacity             *int       `json:"capacity"`
	Location             *string    `json:"location"`
	Tags                 []string   `json:"tags"`
	IsPrivate            *bool      `json:"is_private"`
	Status               *string    `json:"status"`
}

func (r updateSessionRequest) toInput() ports.UpdateSessionInput {
	input := ports.UpdateSessionInput{
		Title:                r.Title,
		Description:          r.Description,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		RegistrationDeadline: r.RegistrationDeadline,
		Capacity:             r.Capacity,
		Location:             r.Location,
		Tags:                 r.Tags,
		IsPrivate:            r.IsPrivate,
	}
	if r.Status != nil {
		status := domain.SessionStatus(*r.Status)
		input.Status = &status
	}
	return input
}

type applicantStatsResponse struct {
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
}

type sessionResponse struct {
	ID                   string                 `json:"id"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Organization         string                 `json:"organization"`
	StartDate            time.Time              `json:"start_date"`
	EndDate              time.Time              `json:"end_date"`
	RegistrationDeadline time.Time              `json:"registration_deadline"`
	Capacity             int                    `json:"capacity"`
	CurrentApplications  int                    `json:"current_applications"`
	Status               string                 `json:"status"`
	IsPrivate            bool                   `json:"is_private"`
	Location             string                 `json:"location,omitempty"`
	Tags                 []string               `json:"tags"`
	ApplicantStats       applicantStatsResponse `json:"applicant_stats"`
	CreatedAt            time.Time              `json:"created_at"`
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:                   s.ID,
		Title:                s.Title,
		Description:          s.Description,
		Organization:         s.Organization,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		RegistrationDeadline: s.RegistrationDeadline,
		Capacity:             s.Capacity,
		CurrentApplications:  s.CurrentApplications,
		Status:               string(s.Status),
		IsPrivate:            s.IsPrivate,
		Location:             s.Location,
		Tags:                 s.Tags,
		ApplicantStats: applicantStatsResponse{
			Pending:     s.ApplicantStats.Pending,
			Shortlisted: s.ApplicantStats.Shortlisted,
			Approved:    s.ApplicantStats.Selected,
			Rejected:    s.ApplicantStats.Rejected,
		},
		CreatedAt: s.CreatedAt,
	}
}

type organizationInfoResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	LogoURL     string `json:"logo_url,omitempty"`
}

type annotatedSessionResponse struct {
	sessionResponse
	OrganizationInfo  organizationInfoResponse `json:"organization_info"`
	HasApplied        bool                     `json:"has_applied"`
	ApplicationStatus *string                  `json:"application_status,omitempty"`
	IsInWishlist      bool                     `json:"is_in_wishlist"`
}

func toAnnotatedResponse(a *ports.AnnotatedSession) annotatedSessionResponse {
	resp := annotatedSessionResponse{
		sessionResponse: toSessionResponse(a.Session),
		OrganizationInfo: organizationInfoResponse{
			ID:          a.Organization.ID,
			CompanyName: a.Organization.CompanyName,
			LogoURL:     a.Organization.LogoURL,
		},
		HasApplied:   a.HasApplied,
		IsInWishlist: a.IsInWishlist,
	}
	if a.ApplicationStatus != nil {
		status := toExternalStatus(*a.ApplicationStatus)
		resp.ApplicationStatus = &status
	}
	return resp
}

type paginationResponse struct {
	CurrentPage   int  `json:"current_page"`
	TotalPages    int  `json:"total_pages"`
	TotalSessions int  `json:"total_sessions"`
	HasMore       bool `json:"has_more"`
}

type discoverResponse struct {
	Sessions   []annotatedSessionResponse `json:"sessions"`
	Pagination paginationResponse         `json:"pagination"`
}

func toDiscoverResponse(result *ports.DiscoverResult) discoverResponse {
	sessions := make([]annotatedSessionResponse, 0, len(result.Sessions))
	for i := range result.Sessions {
		sessions = append(sessions, toAnnotatedResponse(&result.Sessions[i]))
	}
	return discoverResponse{
		Sessions: sessions,
		Pagination: paginationResponse{
			CurrentPage:   result.Pagination.CurrentPage,
			TotalPages:    result.Pagination.TotalPages,
			TotalSessions: result.Pagination.TotalSessions,
			HasMore:       result.Pagination.HasMore,
		},
	}
}
