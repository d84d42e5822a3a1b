package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPError_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		kind   error
		status int
	}{
		{"unauthenticated", Unauthenticated("Invalid or expired token!"), ErrUnauthenticated, http.StatusUnauthorized},
		{"csrf", CSRFMismatch(), ErrCSRFMismatch, http.StatusForbidden},
		{"forbidden", Forbidden("Admin access only!"), ErrForbidden, http.StatusForbidden},
		{"not found", NotFound("Post not found"), ErrNotFound, http.StatusNotFound},
		{"conflict", Conflict("User already exists."), ErrConflict, http.StatusBadRequest},
		{"validation", Validation([]FieldError{{Field: "email", Msg: "Enter a valid email"}}), ErrValidation, http.StatusBadRequest},
		{"throttled", TooManyRequests("slow down"), ErrTooManyRequests, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.Equal(t, tt.status, MapErrorToHTTP(wrapped).StatusCode)
		})
	}
}

func TestMapErrorToHTTP_UnknownErrorIsGeneric(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("mongo: connection refused on 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "Internal server error", httpErr.Message)
}

func TestMapErrorToHTTP_EchoErrors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MapErrorToHTTP(echo.ErrNotFound).StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, MapErrorToHTTP(echo.ErrMethodNotAllowed).StatusCode)

	httpErr := MapErrorToHTTP(echo.NewHTTPError(http.StatusBadRequest, "invalid request body"))
	assert.Equal(t, "invalid request body", httpErr.Message)
}

func TestHTTPErrorHandler_HidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.New(core))
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("secret driver detail")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret driver detail")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "secret driver detail", logs.All()[0].ContextMap()["error"])
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zap.NewNop())
	e.POST("/signup", func(c echo.Context) error {
		return Validation([]FieldError{{Field: "email", Msg: "Enter a valid email"}})
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signup", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Validation failed","errors":[{"field":"email","msg":"Enter a valid email"}]}`, rec.Body.String())
}
