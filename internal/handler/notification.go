package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/repository"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// NotificationHandler serves the signed-in user's notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns one page of notifications with unread counters. ?is_read and
// ?type narrow the page.
func (h *NotificationHandler) List(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	f := repository.NotificationFilters{
		Type:     c.QueryParam("type"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if v := c.QueryParam("is_read"); v != "" {
		isRead, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.BadRequest("is_read must be a boolean")
		}
		f.IsRead = &isRead
	}
	list, err := h.notifications.List(c.Request().Context(), claims.UserID, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

type notificationIDsReq struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

// MarkRead flags the given notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req notificationIDsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.Request().Context(), claims.UserID, req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// MarkAllRead flags every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	n, err := h.notifications.MarkAllRead(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// Delete removes the given notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req notificationIDsReq
	if err := bind(c, &req); err != nil {
		return err
	}
	n, err := h.notifications.Delete(c.Request().Context(), claims.UserID, req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
