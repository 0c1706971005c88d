package router

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/handler"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
)

// RegisterUsers registers the personal cabinet endpoints.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, issuer *auth.Issuer) {
	g := e.Group("/v1/users", middleware.RequireAuth(issuer))
	g.PATCH("/me", h.UpdateProfile)
	g.GET("/roles", h.Roles)
}

// RegisterNotifications registers the signed-in user's notification feed.
func RegisterNotifications(e *echo.Echo, h *handler.NotificationHandler, issuer *auth.Issuer) {
	g := e.Group("/v1/notifications", middleware.RequireAuth(issuer))
	g.GET("", h.List)
	g.POST("/read", h.MarkRead)
	g.POST("/read-all", h.MarkAllRead)
	g.DELETE("", h.Delete)
}

// RegisterReviews registers post-event review endpoints. Reading reviews is
// open to any signed-in user; writing one is checked against event
// participation in the service.
func RegisterReviews(e *echo.Echo, h *handler.ReviewHandler, issuer *auth.Issuer) {
	g := e.Group("/v1/reviews", middleware.RequireAuth(issuer))
	g.POST("", h.Create)
	g.GET("/users/:id", h.ListForUser)
	g.GET("/users/:id/stats", h.Stats)
}
