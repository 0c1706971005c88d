package router

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/handler"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// RegisterAdmin registers moderation and administration endpoints. Every
// route requires the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, issuer *auth.Issuer) {
	g := e.Group(
		"/v1/admin",
		middleware.RequireAuth(issuer),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/statistics", h.Statistics)

	g.GET("/users", h.ListUsers)
	g.POST("/users/:id/block", h.BlockUser)
	g.POST("/users/:id/unblock", h.UnblockUser)
	g.PUT("/users/:id/roles", h.ChangeRoles)

	g.GET("/events/pending", h.PendingEvents)
	g.POST("/events/:id/approve", h.ApproveEvent)
	g.POST("/events/:id/reject", h.RejectEvent)
}
