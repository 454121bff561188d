package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardly/onboarding-system/internal/api/metrics"
	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for application operations.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type submitApplicationRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Shortlisted Approved Rejected"`
}

type applicationResponse struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id"`
	Status       string `json:"status"`
	Organization string `json:"organization,omitempty"`
	DateApplied  string `json:"date_applied"`
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:           a.ID,
		SessionID:    a.Session,
		Status:       toExternalStatus(a.Status),
		Organization: a.OrganizationName,
		DateApplied:  a.DateApplied.UTC().Format(time.RFC3339),
	}
}

// Submit handles POST /v1/applications.
//
// @Summary      Apply to a session
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitApplicationRequest  true  "Target session"
// @Success      201   {object}  applicationResponse
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	app, err := h.service.Submit(c.Request().Context(), uid, req.SessionID)
	if err != nil {
		if reason := rejectReason(err); reason != "" {
			metrics.ApplicationsRejectedTotal.WithLabelValues(reason).Inc()
		}
		return err
	}

	metrics.ApplicationsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// UpdateStatus handles PATCH /v1/applications/:id/status.
//
// @Summary      Update an application's status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Application id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  applicationResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	app, err := h.service.UpdateStatus(c.Request().Context(), uid, c.Param("id"), toInternalStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			metrics.CapacityConflictsTotal.Inc()
		}
		return err
	}

	metrics.StatusUpdatesTotal.WithLabelValues(string(app.Status)).Inc()
	return c.JSON(http.StatusOK, toApplicationResponse(app))
}

// List handles GET /v1/applications. Job seekers get their own applications;
// organizations get the applications across their sessions.
//
// @Summary      List applications for the caller
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (external name) or All"
// @Param        sort    query     string  false  "dateApplied or -dateApplied"
// @Param        limit   query     int     false  "Maximum results"
// @Success      200     {array}   applicationResponse
// @Router       /v1/applications [get]
func (h *ApplicationHandler) List(c echo.Context) error {
	uid, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	filter := ports.ApplicationsFilter{
		Sort: c.QueryParam("sort"),
	}
	if status := c.QueryParam("status"); status != "" && status != "All" {
		filter.Status = string(toInternalStatus(status))
	} else {
		filter.Status = status
	}
	if limit := c.QueryParam("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}

	switch role {
	case domain.RoleJobSeeker:
		views, err := h.service.ListForJobSeeker(c.Request().Context(), uid, filter)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toSeekerApplicationList(views))
	case domain.RoleOrganization:
		views, err := h.service.ListForOrganization(c.Request().Context(), uid, filter)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toOrgApplicationList(views))
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, domain.ErrDeadlinePassed):
		return "deadline"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, domain.ErrPrivateSession):
		return "private"
	}
	return ""
}
