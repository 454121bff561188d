package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// SessionHandler handles the organization-side session lifecycle plus the
// public discovery endpoints.
type SessionHandler struct {
	sessions  ports.SessionService
	discovery ports.DiscoveryService
}

func NewSessionHandler(sessions ports.SessionService, discovery ports.DiscoveryService) *SessionHandler {
	return &SessionHandler{sessions: sessions, discovery: discovery}
}

// Create handles POST /v1/sessions.
//
// @Summary      Post a new session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSessionRequest  true  "Session details"
// @Success      201   {object}  sessionResponse
// @Failure      403   {object}  map[string]string
// @Router       /v1/sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	session, err := h.sessions.Create(c.Request().Context(), uid, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSessionResponse(session))
}

// ListMine handles GET /v1/sessions: the caller's own sessions.
//
// @Summary      List the organization's sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        sort   query     string  false  "createdAt, -createdAt, startDate, -startDate"
// @Param        limit  query     int     false  "Maximum results"
// @Success      200    {array}   sessionResponse
// @Router       /v1/sessions [get]
func (h *SessionHandler) ListMine(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	sessions, err := h.sessions.ListByOrganization(c.Request().Context(), uid, c.QueryParam("sort"), limit)
	if err != nil {
		return err
	}

	items := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, toSessionResponse(s))
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PATCH /v1/sessions/:id.
//
// @Summary      Edit a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Session id"
// @Param        body  body      updateSessionRequest  true  "Fields to change"
// @Success      200   {object}  sessionResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/sessions/{id} [patch]
func (h *SessionHandler) Update(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	session, err := h.sessions.Update(c.Request().Context(), uid, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Delete handles DELETE /v1/sessions/:id.
//
// @Summary      Delete a session and its applications
// @Tags         sessions
// @Security     BearerAuth
// @Param        id  path  string  true  "Session id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Discover handles GET /v1/sessions/discover. Anonymous access is allowed;
// a logged-in job seeker additionally gets hasApplied/applicationStatus/
// isInWishlist annotations.
//
// @Summary      Browse open sessions
// @Tags         sessions
// @Produce      json
// @Param        search    query  string  false  "Match on title, description or tags"
// @Param        tags      query  string  false  "Comma-separated tag list"
// @Param        location  query  string  false  "Location substring"
// @Param        from      query  string  false  "Earliest start date (RFC3339 or YYYY-MM-DD)"
// @Param        to        query  string  false  "Latest start date"
// @Param        sort      query  string  false  "createdAt, -createdAt, startDate, -startDate"
// @Param        page      query  int     false  "Page number (1-based)"
// @Param        limit     query  int     false  "Page size (default 12)"
// @Success      200  {object}  discoverResponse
// @Router       /v1/sessions/discover [get]
func (h *SessionHandler) Discover(c echo.Context) error {
	input := ports.DiscoverInput{
		ViewerID:  ctxViewer(c),
		Search:    c.QueryParam("search"),
		Location:  c.QueryParam("location"),
		StartFrom: c.QueryParam("from"),
		StartTo:   c.QueryParam("to"),
		Sort:      c.QueryParam("sort"),
	}
	if tags := c.QueryParam("tags"); tags != "" {
		input.Tags = strings.Split(tags, ",")
	}
	if page := c.QueryParam("page"); page != "" {
		input.Page, _ = strconv.Atoi(page)
	}
	if limit := c.QueryParam("limit"); limit != "" {
		input.Limit, _ = strconv.Atoi(limit)
	}

	result, err := h.discovery.Discover(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDiscoverResponse(result))
}

// Details handles GET /v1/sessions/:id with the same optional-viewer
// annotation behavior as Discover.
//
// @Summary      Session details
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session id"
// @Success      200  {object}  annotatedSessionResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/sessions/{id} [get]
func (h *SessionHandler) Details(c echo.Context) error {
	annotated, err := h.discovery.Details(c.Request().Context(), c.Param("id"), ctxViewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnnotatedResponse(annotated))
}
