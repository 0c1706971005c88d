package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
)

// RequireRole admits only authenticated users whose role snapshot contains at
// least one of the given names. It must run after RequireAuth. The check is
// against the roles captured at login, so a role granted afterwards takes
// effect on the next login.
func RequireRole(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Identity(c)
			if !ok {
				return apperr.Unauthorized("authentication required")
			}
			for _, name := range names {
				if claims.HasRole(name) {
					return next(c)
				}
			}
			return apperr.PermissionDenied("insufficient role")
		}
	}
}
