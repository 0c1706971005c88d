// Package handler contains the echo HTTP layer: request DTOs, input
// validation, cookie transport and the translation between HTTP and the
// service layer. Handlers never touch repositories directly.
package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Tag violations surface as 422 responses with the offending field named.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (val *Validator) Validate(i interface{}) error {
	if err := val.v.Struct(i); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperr.Validation("invalid field: " + errs[0].Field())
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

// bind decodes and validates a request body in one step.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	return c.Validate(dst)
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.BadRequest("invalid " + name)
	}
	return id, nil
}

// queryInt parses an optional numeric query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// paged is the uniform list envelope.
type paged struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
