package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     *auth.CookieTransport
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies *auth.CookieTransport) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// SignupRequest represents a member registration request.
type SignupRequest struct {
	Name          string   `json:"name" validate:"required,min=4,lettersspaces"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,strongpassword"`
	StreetAddress string   `json:"streetAddress" validate:"required,min=5"`
	PostalCode    string   `json:"postalCode" validate:"required,postalcode"`
	Phone         string   `json:"phone" validate:"required,phone"`
	Bio           string   `json:"bio" validate:"omitempty,max=500"`
	Hobbies       []string `json:"hobbies" validate:"omitempty,dive,max=50"`
}

func (r SignupRequest) toInput() service.SignupInput {
	return service.SignupInput{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.Password,
		StreetAddress: r.StreetAddress,
		PostalCode:    r.PostalCode,
		Phone:         r.Phone,
		Bio:           r.Bio,
		Hobbies:       r.Hobbies,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionUser is the identity echoed after login.
type SessionUser struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// LoginResponse represents a member login response.
type LoginResponse struct {
	Message   string      `json:"message"`
	User      SessionUser `json:"user"`
	CSRFToken string      `json:"csrfToken"`
}

// AdminLoginResponse represents an admin login response.
type AdminLoginResponse struct {
	Message   string `json:"message"`
	CSRFToken string `json:"csrfToken"`
}

// SignupResponse represents a registration response.
type SignupResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// Signup godoc
// @Summary Register a new member
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, SignupResponse{Message: "User registered successfully.", User: user})
}

// Login godoc
// @Summary Log in
// @Description Sets the session cookie and returns the CSRF token to echo in X-CSRF-Token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Attach(c, session.Token)
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login Successful.",
		User: SessionUser{
			ID:    session.User.ID.Hex(),
			Email: session.User.Email,
			Role:  session.User.Role,
		},
		CSRFToken: session.CSRFToken,
	})
}

// AdminLogin godoc
// @Summary Log in as administrator
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AdminLoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Attach(c, session.Token)
	return c.JSON(http.StatusOK, AdminLoginResponse{Message: "Admin logged in.", CSRFToken: session.CSRFToken})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Security CookieAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	return c.NoContent(http.StatusNoContent)
}

// ClearStaleSession clears the session cookie when the wrapped chain rejects
// it as unauthenticated, so a dead session cannot outlive a logout attempt.
func (h *AuthHandler) ClearStaleSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if errors.Is(err, apperrors.ErrUnauthenticated) {
			h.cookies.Clear(c)
		}
		return err
	}
}
