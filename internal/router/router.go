// Package router maps URL space to handlers and composes the middleware each
// area runs behind. Routes live under /v1, grouped by audience: public browse,
// auth handshake, signed-in users and admins.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/handler"
)

// RegisterHealth exposes the liveness probe outside the /v1 space.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest-facing browse endpoints. No auth
// middleware; the read-heavy routes sit behind the response cache when one
// is configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/public")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/events", p.BrowseEvents)
	g.GET("/events/:id", p.EventDetails)
	g.GET("/users/:id", p.Profile)
	g.GET("/tags", p.Tags)
	g.GET("/skills", p.Skills)
}
