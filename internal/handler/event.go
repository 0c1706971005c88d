package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// EventHandler serves the organizer-facing event endpoints.
type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventReq struct {
	Title              string    `json:"title" validate:"required,min=3,max=200"`
	Description        string    `json:"description" validate:"required"`
	Location           string    `json:"location" validate:"required,max=200"`
	RequiredVolunteers int       `json:"required_volunteers" validate:"required,min=1"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	ImageURL           *string   `json:"event_image_url" validate:"omitempty,url"`
	TagIDs             []int64   `json:"tag_ids"`
	SkillIDs           []int64   `json:"skill_ids"`
}

// Create submits a new event for moderation.
func (h *EventHandler) Create(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req createEventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := h.events.Create(c.Request().Context(), claims.UserID, service.CreateEventInput{
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		RequiredVolunteers: req.RequiredVolunteers,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ImageURL:           req.ImageURL,
		TagIDs:             req.TagIDs,
		SkillIDs:           req.SkillIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

// Get returns the full detail view of one event, whatever its status. Guests
// use the public browse endpoints instead.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.events.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

type updateEventReq struct {
	Title              *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description        *string `json:"description"`
	Location           *string `json:"location" validate:"omitempty,max=200"`
	RequiredVolunteers *int    `json:"required_volunteers" validate:"omitempty,min=1"`
	StartDate          *string `json:"start_date"`
	EndDate            *string `json:"end_date"`
	ImageURL           *string `json:"event_image_url" validate:"omitempty,url"`
	TagIDs             []int64 `json:"tag_ids"`
	SkillIDs           []int64 `json:"skill_ids"`
}

// Update applies a partial edit to an event.
func (h *EventHandler) Update(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateEventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := h.events.Update(c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin), id, repository.EventUpdate{
		Title:              req.Title,
		Description:        req.Description,
		Location:           req.Location,
		RequiredVolunteers: req.RequiredVolunteers,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ImageURL:           req.ImageURL,
		TagIDs:             req.TagIDs,
		SkillIDs:           req.SkillIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Delete removes an event entirely.
func (h *EventHandler) Delete(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel withdraws an event and notifies its approved volunteers.
func (h *EventHandler) Cancel(c echo.Context) error {
	return h.transition(c, (*service.EventService).Cancel)
}

// Complete marks an event as held, opening it for reviews.
func (h *EventHandler) Complete(c echo.Context) error {
	return h.transition(c, (*service.EventService).Complete)
}

func (h *EventHandler) transition(c echo.Context, op func(*service.EventService, context.Context, int64, bool, int64) (model.Event, error)) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := op(h.events, c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// ListMine returns the caller's own events.
func (h *EventHandler) ListMine(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	events, err := h.events.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
