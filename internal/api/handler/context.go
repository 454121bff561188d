package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: both uid and role must be present,
// proving the middleware ran and the token carried an identity.
func ctxClaims(c echo.Context) (uid, role string, err error) {
	uid, _ = c.Get("uid").(string)
	role, _ = c.Get("role").(string)
	if uid == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return uid, role, nil
}

// ctxViewer extracts the optional viewer identity on OptionalAuth routes.
// Anonymous requests yield an empty uid.
func ctxViewer(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
