package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/auth"
)

// setTokenCookie stores a token in an HTTP-only cookie named after its kind.
// SameSite=Lax keeps the cookie off cross-site POSTs while still riding along
// on top-level navigation; the cookie lives exactly as long as the token.
func setTokenCookie(c echo.Context, kind auth.Kind, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     string(kind),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearTokenCookie expires a token cookie immediately.
func clearTokenCookie(c echo.Context, kind auth.Kind, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     string(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
