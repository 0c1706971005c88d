package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/service"
)

// ReviewHandler serves post-event review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewReq struct {
	EventID  int64   `json:"event_id" validate:"required,min=1"`
	ToUserID int64   `json:"to_user_id" validate:"required,min=1"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment" validate:"omitempty,max=1000"`
}

// Create stores a review between two participants of a completed event.
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, ok := middleware.Identity(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}
	var req createReviewReq
	if err := bind(c, &req); err != nil {
		return err
	}
	rev, err := h.reviews.Create(c.Request().Context(), claims.UserID, service.ReviewInput{
		EventID:  req.EventID,
		ToUserID: req.ToUserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rev)
}

// ListForUser returns one page of reviews received by a user.
func (h *ReviewHandler) ListForUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	reviews, total, err := h.reviews.ListForUser(c.Request().Context(), id, page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged{Items: reviews, Total: total, Page: page, PageSize: pageSize})
}

// Stats returns the review summary of a user.
func (h *ReviewHandler) Stats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.reviews.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
