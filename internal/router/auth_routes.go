package router

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/handler"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
)

// RegisterAuth registers the verification handshake and session endpoints.
// The handshake goes: send-code (rate limited) -> verify-code (plants the
// verification cookie) -> register or login (require that cookie) -> the
// access cookie carries the session from there.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, issuer *auth.Issuer, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")

	if rateLimit != nil {
		g.POST("/send-code", a.SendCode, rateLimit)
	} else {
		g.POST("/send-code", a.SendCode)
	}
	g.POST("/verify-code", a.VerifyCode)

	verified := g.Group("", middleware.RequireVerifiedEmail(issuer))
	verified.POST("/register", a.Register)
	verified.POST("/login", a.Login)

	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.RequireAuth(issuer))
}
