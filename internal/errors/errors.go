package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error kinds. Every HTTPError unwraps to exactly one of these so callers can
// match with errors.Is regardless of the client-facing message.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrCSRFMismatch    = errors.New("csrf mismatch")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrUnavailable     = errors.New("service unavailable")
)

const internalMessage = "Internal server error"

// FieldError is a single validation failure reported to the client.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
	kind       error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.kind
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message, Errors: e.Fields}
}

func newHTTPError(status int, kind error, message string) *HTTPError {
	return &HTTPError{StatusCode: status, Message: message, kind: kind}
}

// Unauthenticated is a 401.
func Unauthenticated(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, ErrUnauthenticated, message)
}

// CSRFMismatch is the 403 returned for any CSRF failure.
func CSRFMismatch() *HTTPError {
	return newHTTPError(http.StatusForbidden, ErrCSRFMismatch, "Invalid CSRF token!")
}

// Forbidden is a 403 for failed role or ownership checks.
func Forbidden(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, ErrForbidden, message)
}

// NotFound is a 404.
func NotFound(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, ErrNotFound, message)
}

// Conflict reports a uniqueness violation. The API answers these with 400.
func Conflict(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, ErrConflict, message)
}

// BadRequest is a 400 without field details.
func BadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, ErrBadRequest, message)
}

// Validation is a 400 carrying field-level messages.
func Validation(fields []FieldError) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, ErrValidation, "Validation failed")
	e.Fields = fields
	return e
}

// TooManyRequests is a 429.
func TooManyRequests(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, ErrTooManyRequests, message)
}

// Unavailable is a 503.
func Unavailable(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, ErrUnavailable, message)
}

// MapErrorToHTTP maps any error to the response the client is allowed to see.
// Unknown errors collapse to a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg := http.StatusText(echoErr.Code)
		if s, ok := echoErr.Message.(string); ok && echoErr.Code < http.StatusInternalServerError {
			msg = s
		}
		switch {
		case echoErr.Code == http.StatusNotFound:
			return NotFound(msg)
		case echoErr.Code == http.StatusUnauthorized:
			return Unauthenticated(msg)
		case echoErr.Code == http.StatusForbidden:
			return Forbidden(msg)
		case echoErr.Code == http.StatusTooManyRequests:
			return TooManyRequests(msg)
		case echoErr.Code < http.StatusInternalServerError:
			return &HTTPError{StatusCode: echoErr.Code, Message: msg, kind: ErrBadRequest}
		}
	}

	return &HTTPError{StatusCode: http.StatusInternalServerError, Message: internalMessage}
}

// NewHTTPErrorHandler renders every handler error as {"message": ...}. Server
// errors are logged with their cause; the client only sees a generic message.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := MapErrorToHTTP(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			log.Warn("write error response", zap.Error(writeErr))
		}
	}
}
