package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, err error) (int, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(err, c)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestTypedErrorKeepsCodeAndStatus(t *testing.T) {
	status, body := invoke(t, NotFound("event not found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, envelope{Error: "NOT_FOUND", Message: "event not found", Path: "/v1/things"}, body)
}

func TestEchoErrorKeepsStatus(t *testing.T) {
	status, body := invoke(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "/v1/things", body.Path)
}

func TestUnknownErrorIsGeneric(t *testing.T) {
	status, body := invoke(t, errors.New("pq: connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error)
	assert.Equal(t, "unexpected error", body.Message, "internal detail must not leak")
}

func TestErrorTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{NotFound("x"), 404, "NOT_FOUND"},
		{AlreadyExists("x"), 409, "ALREADY_EXISTS"},
		{Validation("x"), 422, "VALIDATION_ERROR"},
		{BadRequest("x"), 400, "BAD_REQUEST"},
		{Unauthorized("x"), 401, "UNAUTHORIZED"},
		{PermissionDenied("x"), 403, "PERMISSION_DENIED"},
		{Database("x"), 500, "DATABASE_ERROR"},
		{Internal("x"), 500, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status)
		assert.Equal(t, tc.code, tc.err.Code)
	}
}

func TestAsUnwraps(t *testing.T) {
	wrapped := NotFound("gone")
	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, wrapped, got)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
