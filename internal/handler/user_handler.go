package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/auth"
	"neighborconnect/internal/service"
)

// UserHandler bundles the member-facing user endpoints.
type UserHandler struct {
	svc     service.UserService
	cookies *auth.CookieTransport
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, cookies *auth.CookieTransport) *UserHandler {
	return &UserHandler{svc: svc, cookies: cookies}
}

// UpdateProfileRequest lists the profile fields a member may change. Role,
// email and password are not accepted here.
type UpdateProfileRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=4,lettersspaces"`
	StreetAddress *string   `json:"streetAddress" validate:"omitempty,min=5"`
	PostalCode    *string   `json:"postalCode" validate:"omitempty,postalcode"`
	Phone         *string   `json:"phone" validate:"omitempty,phone"`
	Bio           *string   `json:"bio" validate:"omitempty,max=500"`
	Hobbies       *[]string `json:"hobbies" validate:"omitempty,dive,max=50"`
}

func (r UpdateProfileRequest) toUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		Name:          r.Name,
		StreetAddress: r.StreetAddress,
		PostalCode:    r.PostalCode,
		Phone:         r.Phone,
		Bio:           r.Bio,
		Hobbies:       r.Hobbies,
	}
}

// CurrentUser godoc
// @Summary Get the logged-in user
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/currentUser [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListByPostalCode godoc
// @Summary List neighbours in a postal code
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param postalCode path string true "Postal code"
// @Success 200 {array} model.User
// @Router /users/zip/{postalCode} [get]
func (h *UserHandler) ListByPostalCode(c echo.Context) error {
	users, err := h.svc.ListByPostalCode(c.Request().Context(), c.Param("postalCode"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateSelf(c.Request().Context(), caller, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteAccount godoc
// @Summary Delete own account
// @Description Deletes the caller's account and clears the session cookie.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSelf(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

// UploadAvatar godoc
// @Summary Upload profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param image formData file true "JPEG or PNG image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /users/upload-avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	data, err := requireImage(c)
	if err != nil {
		return err
	}

	user, err := h.svc.UploadAvatar(c.Request().Context(), caller, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadCover godoc
// @Summary Upload cover picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param image formData file true "JPEG or PNG image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /users/upload-cover [post]
func (h *UserHandler) UploadCover(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	data, err := requireImage(c)
	if err != nil {
		return err
	}

	user, err := h.svc.UploadCover(c.Request().Context(), caller, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
