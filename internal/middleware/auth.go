// Package middleware provides the request guards wrapped around protected
// routes: token cookies, role checks, response caching and rate limiting.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
)

// Context keys under which the guards store what they extracted.
const (
	ContextIdentity      = "identity"
	ContextVerifiedEmail = "verified_email"
)

// RequireVerifiedEmail admits only requests carrying a valid verification
// token cookie and stores the proven email address in the context. A missing
// cookie and a bad token produce distinct messages so clients can tell "start
// the handshake" apart from "your token expired".
func RequireVerifiedEmail(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(string(auth.KindVerify))
			if err != nil || cookie.Value == "" {
				return apperr.Unauthorized("email verification required")
			}
			claims, err := issuer.Decode(cookie.Value)
			if err != nil || claims.Kind != auth.KindVerify {
				return apperr.Unauthorized("invalid or expired verification token")
			}
			c.Set(ContextVerifiedEmail, claims.Email)
			return next(c)
		}
	}
}

// RequireAuth admits only requests carrying a valid access token cookie and
// stores the full claim set in the context for handlers and role guards.
func RequireAuth(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(string(auth.KindAccess))
			if err != nil || cookie.Value == "" {
				return apperr.Unauthorized("authentication required")
			}
			claims, err := issuer.Decode(cookie.Value)
			if err != nil || claims.Kind != auth.KindAccess {
				return apperr.Unauthorized("invalid or expired access token")
			}
			c.Set(ContextIdentity, claims)
			return next(c)
		}
	}
}

// Identity returns the claims stored by RequireAuth.
func Identity(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextIdentity).(*auth.Claims)
	return claims, ok
}

// VerifiedEmail returns the address stored by RequireVerifiedEmail.
func VerifiedEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(ContextVerifiedEmail).(string)
	return email, ok && email != ""
}
