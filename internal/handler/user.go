package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// UserHandler serves the personal cabinet endpoints.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileReq struct {
	FullName  *string  `json:"fullname" validate:"omitempty,min=2,max=100"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url"`
	DateBirth *string  `json:"date_birth"` // YYYY-MM-DD
	Location  *string  `json:"location" validate:"omitempty,max=200"`
	SkillIDs  []int64  `json:"skill_ids"`
	RoleNames []string `json:"roles" validate:"omitempty,dive,oneof=volunteer organizer"`
}

// UpdateProfile applies a partial update to the caller's profile, skills and
// self-selected roles.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req updateProfileReq
	if err := bind(c, &req); err != nil {
		return err
	}

	upd := service.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Location:  req.Location,
		SkillIDs:  req.SkillIDs,
		RoleNames: req.RoleNames,
	}
	if req.DateBirth != nil {
		born, err := time.Parse("2006-01-02", *req.DateBirth)
		if err != nil {
			return apperr.Validation("date_birth must be YYYY-MM-DD")
		}
		upd.DateBirth = &born
	}

	cab, err := h.users.UpdateProfile(c.Request().Context(), claims.UserID, upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cab)
}

// Roles lists the role catalogue for profile forms.
func (h *UserHandler) Roles(c echo.Context) error {
	roles, err := h.users.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}
