package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// PublicHandler serves the guest-facing read surface. These routes carry no
// auth middleware and the browse endpoints sit behind the response cache.
type PublicHandler struct {
	public *service.PublicService
}

func NewPublicHandler(public *service.PublicService) *PublicHandler {
	return &PublicHandler{public: public}
}

// BrowseEvents lists approved events with optional location and tag filters.
func (h *PublicHandler) BrowseEvents(c echo.Context) error {
	f := repository.EventFilters{
		Location: c.QueryParam("location"),
		TagIDs:   parseIDList(c.QueryParam("tags")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	events, total, err := h.public.BrowseEvents(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: events, Total: total, Page: f.Page, PageSize: f.PageSize})
}

// EventDetails returns the detail view of an approved event.
func (h *PublicHandler) EventDetails(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.public.EventDetails(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Profile returns the public view of a user with their review summary.
func (h *PublicHandler) Profile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, stats, err := h.public.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p, "reviews": stats})
}

// Tags lists the tag catalogue.
func (h *PublicHandler) Tags(c echo.Context) error {
	tags, err := h.public.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Skills lists the skill catalogue.
func (h *PublicHandler) Skills(c echo.Context) error {
	skills, err := h.public.Skills(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skills)
}

// parseIDList parses a comma-separated id list; malformed entries are dropped.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
