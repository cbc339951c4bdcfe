package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// RequireRole enforces role-based access control. A missing authenticated
// context yields 401 (the middleware normally runs behind Authenticate); a
// role outside the allowed set yields 403.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireOwnershipOrAdmin allows the request through when the path parameter
// named param equals the authenticated user id, or when the caller is an
// admin.
func RequireOwnershipOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}

			role, _ := c.Get(CtxRole).(string)
			if c.Param(param) != userID && role != domain.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
