package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/media"
)

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// bind decodes the request and runs the registered validator.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	return c.Validate(req)
}

func identity(c echo.Context) (*auth.Identity, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, apperrors.Unauthenticated(auth.MsgNotAuthenticated)
	}
	return id, nil
}

// readImage loads the multipart file named field. ok is false when the
// request has no such file.
func readImage(c echo.Context, field string) (data []byte, ok bool, err error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, false, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, false, nil
		}
		return nil, false, apperrors.BadRequest("Invalid upload")
	}
	if fh.Size > media.MaxUploadBytes {
		return nil, false, apperrors.BadRequest(media.ErrTooLarge.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return nil, false, apperrors.BadRequest("Invalid upload")
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
	if err != nil {
		return nil, false, apperrors.BadRequest("Invalid upload")
	}
	return data, true, nil
}

func requireImage(c echo.Context) ([]byte, error) {
	data, ok, err := readImage(c, "image")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "image", Msg: "Image file is required"}})
	}
	return data, nil
}
