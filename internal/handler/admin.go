package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// AdminHandler serves moderation and administration endpoints. The router
// wraps every route here in the admin role guard.
type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Statistics returns platform-wide counters.
func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.admin.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers returns one page of all registered users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	users, total, err := h.admin.ListUsers(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: users, Total: total, Page: page, PageSize: pageSize})
}

// BlockUser deactivates an account.
func (h *AdminHandler) BlockUser(c echo.Context) error {
	return h.setActive(c, false)
}

// UnblockUser reactivates an account.
func (h *AdminHandler) UnblockUser(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *AdminHandler) setActive(c echo.Context, active bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.SetUserActive(c.Request().Context(), id, active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PendingEvents lists events awaiting moderation.
func (h *AdminHandler) PendingEvents(c echo.Context) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	events, total, err := h.admin.PendingEvents(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: events, Total: total, Page: page, PageSize: pageSize})
}

// ApproveEvent publishes a pending event.
func (h *AdminHandler) ApproveEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.admin.ApproveEvent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// RejectEvent returns a pending event to its organizer for changes.
func (h *AdminHandler) RejectEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.admin.RejectEvent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

type changeRolesReq struct {
	Roles []string `json:"roles" validate:"required,dive,min=1"`
}

// ChangeRoles replaces a user's role set.
func (h *AdminHandler) ChangeRoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req changeRolesReq
	if err := bind(c, &req); err != nil {
		return err
	}
	roles, err := h.admin.ChangeRoles(c.Request().Context(), id, req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}
