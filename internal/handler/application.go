package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/model"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// ApplicationHandler serves volunteer application endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

type applyReq struct {
	EventID int64   `json:"event_id" validate:"required,min=1"`
	Message *string `json:"message" validate:"omitempty,max=1000"`
}

// Apply files an application to an approved event.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req applyReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.applications.Apply(c.Request().Context(), claims.UserID, req.EventID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

type decideReq struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Decide approves or rejects one application.
func (h *ApplicationHandler) Decide(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req decideReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.applications.Decide(c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Cancel withdraws the caller's own pending application.
func (h *ApplicationHandler) Cancel(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.applications.Cancel(c.Request().Context(), claims.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// ListMine returns the caller's applications.
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	apps, total, err := h.applications.ListMine(c.Request().Context(), claims.UserID, c.QueryParam("status"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: apps, Total: total, Page: page, PageSize: pageSize})
}

// ListForEvent returns the applications filed against one event.
func (h *ApplicationHandler) ListForEvent(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	apps, total, err := h.applications.ListForEvent(c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin),
		eventID, c.QueryParam("status"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: apps, Total: total, Page: page, PageSize: pageSize})
}

type bulkDecideReq struct {
	IDs    []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
}

// BulkDecide approves or rejects several applications of one event at once.
func (h *ApplicationHandler) BulkDecide(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req bulkDecideReq
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.applications.BulkDecide(c.Request().Context(), claims.UserID, claims.HasRole(model.RoleAdmin),
		eventID, req.IDs, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}
