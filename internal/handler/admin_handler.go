package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/auth"
	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

// AdminHandler exposes moderation endpoints. Every route is behind RequireAdmin.
type AdminHandler struct {
	users    service.UserService
	posts    service.PostService
	events   service.EventService
	comments service.CommentService
	cookies  *auth.CookieTransport
}

// NewAdminHandler creates a handler layer.
func NewAdminHandler(
	users service.UserService,
	posts service.PostService,
	events service.EventService,
	comments service.CommentService,
	cookies *auth.CookieTransport,
) *AdminHandler {
	return &AdminHandler{users: users, posts: posts, events: events, comments: comments, cookies: cookies}
}

// CreateUserRequest registers a user with an explicit role.
type CreateUserRequest struct {
	SignupRequest
	Role string `json:"role" validate:"omitempty,oneof=member admin"`
}

// UpdateUserRequest extends the profile fields with email and role.
type UpdateUserRequest struct {
	UpdateProfileRequest
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=member admin"`
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/all/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateUserRequest true "User"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/users/create [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), service.AdminUserInput{
		SignupInput: req.SignupRequest.toInput(),
		Role:        model.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update any user
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.AdminUserUpdate{
		ProfileUpdate: req.UpdateProfileRequest.toUpdate(),
		Email:         req.Email,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete any user
// @Description Deleting the caller's own account also clears the session cookie.
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if auth.SameID(caller.ID, user.ID) {
		h.cookies.Clear(c)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("User %s successfully deleted!", user.Name)})
}

// ListPosts godoc
// @Summary List all posts
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Post
// @Router /admin/all/posts [get]
func (h *AdminHandler) ListPosts(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost godoc
// @Summary Update any post
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Post ID"
// @Param request body UpdatePostRequest true "Fields to change"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [put]
func (h *AdminHandler) UpdatePost(c echo.Context) error {
	var req UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete any post
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c echo.Context) error {
	if err := h.posts.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// ListEvents godoc
// @Summary List all events
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Event
// @Router /admin/all/events [get]
func (h *AdminHandler) ListEvents(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update any event
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Fields to change"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/events/{id} [put]
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	var req UpdateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toUpdate()
	if err != nil {
		return err
	}
	event, err := h.events.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete any event
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/events/{id} [delete]
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	if err := h.events.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}

// ListComments godoc
// @Summary List all comments
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Comment
// @Router /admin/all/comments [get]
func (h *AdminHandler) ListComments(c echo.Context) error {
	comments, err := h.comments.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary Delete any comment
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/comments/{id} [delete]
func (h *AdminHandler) DeleteComment(c echo.Context) error {
	if err := h.comments.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
