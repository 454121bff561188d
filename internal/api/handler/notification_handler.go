package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// NotificationHandler handles HTTP requests for notification operations.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	TotalPages    int                    `json:"total_pages"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /v1/notifications. Fetching the list also runs the
// upcoming-session reminder check for the caller, so reminders appear
// without a separate scheduler.
//
// @Summary      List notifications for the caller
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int   false  "Page number (1-based)"
// @Param        limit   query     int   false  "Page size"
// @Param        unread  query     bool  false  "Only unread notifications"
// @Success      200     {object}  notificationListResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))

	result, err := h.service.List(c.Request().Context(), uid, page, limit, unreadOnly)
	if err != nil {
		return err
	}

	items := make([]notificationResponse, 0, len(result.Items))
	for _, n := range result.Items {
		items = append(items, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, notificationListResponse{
		Notifications: items,
		Total:         result.Total,
		UnreadCount:   result.UnreadCount,
		Page:          result.Page,
		TotalPages:    result.TotalPages,
	})
}

// MarkRead handles PATCH /v1/notifications/:id/read.
//
// @Summary      Mark one notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles PATCH /v1/notifications/read-all.
//
// @Summary      Mark every notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Router       /v1/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAllRead(c.Request().Context(), uid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
