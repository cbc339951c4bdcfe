package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/api/middleware"
	"github.com/pressroom/blog-system/internal/core/domain"
)

// ctxAuth extracts the identity injected by the Authenticate middleware and
// fast-fails before any service call: a non-empty user id proves the
// middleware ran.
func ctxAuth(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get(middleware.CtxRole).(string)
	return userID, role, nil
}

// viewerKey identifies a reader for view deduplication: the authenticated
// user id when present, the client address otherwise.
func viewerKey(c echo.Context) string {
	if userID, _ := c.Get(middleware.CtxUserID).(string); userID != "" {
		return userID
	}
	return c.RealIP()
}

// isAdmin reports whether the authenticated caller holds the admin role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxRole).(string)
	return role == domain.RoleAdmin
}
