package router

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/handler"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/model"
)

// RegisterEvents registers the organizer-facing event endpoints. Creation and
// management need the organizer role; admins pass the ownership check inside
// the service instead of a separate role gate here.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, issuer *auth.Issuer) {
	g := e.Group("/v1/events", middleware.RequireAuth(issuer))

	g.GET("/my", h.ListMine)
	g.GET("/:id", h.Get)

	organizer := g.Group("", middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin))
	organizer.POST("", h.Create)
	organizer.PATCH("/:id", h.Update)
	organizer.DELETE("/:id", h.Delete)
	organizer.POST("/:id/cancel", h.Cancel)
	organizer.POST("/:id/complete", h.Complete)
}

// RegisterApplications registers volunteer application endpoints. Filing and
// withdrawing need the volunteer role; decisions are checked against event
// ownership in the service.
func RegisterApplications(e *echo.Echo, h *handler.ApplicationHandler, issuer *auth.Issuer) {
	g := e.Group("/v1/applications", middleware.RequireAuth(issuer))

	volunteer := g.Group("", middleware.RequireRole(model.RoleVolunteer))
	volunteer.POST("", h.Apply)
	volunteer.POST("/:id/cancel", h.Cancel)

	g.GET("/my", h.ListMine)
	g.PATCH("/:id", h.Decide)

	ev := e.Group("/v1/events/:id/applications", middleware.RequireAuth(issuer))
	ev.GET("", h.ListForEvent)
	ev.POST("/bulk", h.BulkDecide)
}
