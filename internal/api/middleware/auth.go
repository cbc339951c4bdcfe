package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/core/token"
)

// Context keys set after successful authentication.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Authenticate validates the bearer token and injects the authenticated
// identity into the request context. The expired/malformed distinction made
// by the codec is deliberately collapsed into one generic 401 here.
func Authenticate(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}

// OptionalAuthenticate attaches the identity when a valid bearer token is
// present and lets the request proceed unauthenticated otherwise. It never
// surfaces an error to the caller.
func OptionalAuthenticate(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err == nil {
				if claims, err := codec.Verify(raw); err == nil {
					c.Set(CtxUserID, claims.UserID)
					c.Set(CtxRole, claims.Role)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
