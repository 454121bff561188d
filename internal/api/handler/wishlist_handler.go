package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardly/onboarding-system/internal/core/ports"
)

// WishlistHandler handles HTTP requests for wishlist operations.
type WishlistHandler struct {
	service ports.WishlistService
}

func NewWishlistHandler(service ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

type addWishlistRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type wishlistItemResponse struct {
	ID           string                   `json:"id"`
	Session      sessionResponse          `json:"session"`
	Organization organizationInfoResponse `json:"organization"`
	CreatedAt    string                   `json:"created_at"`
}

func toWishlistItemResponse(v *ports.WishlistView) wishlistItemResponse {
	return wishlistItemResponse{
		ID:      v.ID,
		Session: toSessionResponse(v.Session),
		Organization: organizationInfoResponse{
			ID:          v.Organization.ID,
			CompanyName: v.Organization.CompanyName,
			LogoURL:     v.Organization.LogoURL,
		},
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /v1/wishlist.
//
// @Summary      List the caller's bookmarked sessions
// @Tags         wishlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  wishlistItemResponse
// @Router       /v1/wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), uid)
	if err != nil {
		return err
	}

	items := make([]wishlistItemResponse, 0, len(views))
	for i := range views {
		items = append(items, toWishlistItemResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, items)
}

// Add handles POST /v1/wishlist.
//
// @Summary      Bookmark a session
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addWishlistRequest  true  "Target session"
// @Success      201   {object}  wishlistItemResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/wishlist [post]
func (h *WishlistHandler) Add(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req addWishlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	view, err := h.service.Add(c.Request().Context(), uid, req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toWishlistItemResponse(view))
}

// Remove handles DELETE /v1/wishlist/:sessionID.
//
// @Summary      Remove a bookmark
// @Tags         wishlist
// @Security     BearerAuth
// @Param        sessionID  path  string  true  "Session id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/wishlist/{sessionID} [delete]
func (h *WishlistHandler) Remove(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.Request().Context(), uid, c.Param("sessionID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
