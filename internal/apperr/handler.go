package apperr

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the JSON body returned for every failed request.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// HTTPErrorHandler converts errors escaping handlers into the uniform
// {error, message, path} envelope. Typed *Error values keep their code and
// status; echo's own HTTP errors keep their status with a synthetic code;
// everything else is logged with full detail and reported as a generic
// internal error so internals never leak.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	path := c.Request().URL.Path

	var status int
	var body envelope

	switch e := err.(type) {
	case *Error:
		status = e.Status
		body = envelope{Error: e.Code, Message: e.Message, Path: path}
		log.Printf("app error: %s | %s | path=%s", e.Code, e.Message, path)
	case *echo.HTTPError:
		status = e.Code
		msg, _ := e.Message.(string)
		if msg == "" {
			msg = http.StatusText(status)
		}
		body = envelope{Error: http.StatusText(status), Message: msg, Path: path}
		log.Printf("http error: %d | %s | path=%s", status, msg, path)
	default:
		status = http.StatusInternalServerError
		body = envelope{Error: "INTERNAL_SERVER_ERROR", Message: "unexpected error", Path: path}
		log.Printf("unexpected error: %T %v | path=%s", err, err, path)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}
