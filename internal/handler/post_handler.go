package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

// PostHandler serves help requests.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a handler layer.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePostRequest is the body of POST /posts/post.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=100"`
	Description string   `json:"description" validate:"required,min=10"`
	Category    []string `json:"category" validate:"omitempty,dive,max=50"`
	Street      string   `json:"street" validate:"required"`
	PostalCode  string   `json:"postalCode" validate:"required,postalcode"`
	Status      string   `json:"status" validate:"omitempty,oneof=open 'in progress' closed"`
}

// UpdatePostRequest holds the fields an admin may change on a post.
type UpdatePostRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=5,max=100"`
	Description *string   `json:"description" validate:"omitempty,min=10"`
	Category    *[]string `json:"category" validate:"omitempty,dive,max=50"`
	Street      *string   `json:"street" validate:"omitempty,min=1"`
	PostalCode  *string   `json:"postalCode" validate:"omitempty,postalcode"`
	Status      *string   `json:"status" validate:"omitempty,oneof=open 'in progress' closed"`
}

func (r UpdatePostRequest) toUpdate() service.PostUpdate {
	in := service.PostUpdate{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Street:      r.Street,
		PostalCode:  r.PostalCode,
	}
	if r.Status != nil {
		status := model.PostStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// PostCreatedResponse is returned after a post is created.
type PostCreatedResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

// LikeResponse reports the caller's like state after a toggle.
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// List godoc
// @Summary List all posts
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Post
// @Router /posts/all/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Nearby godoc
// @Summary List posts in the caller's postal code
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Post
// @Router /posts/zip [get]
func (h *PostHandler) Nearby(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	posts, err := h.svc.ListNearby(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Create godoc
// @Summary Create a help request
// @Tags posts
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} PostCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts/post [post]
func (h *PostHandler) Create(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.svc.Create(c.Request().Context(), caller, service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Street:      req.Street,
		PostalCode:  req.PostalCode,
		Status:      model.PostStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PostCreatedResponse{Message: "Post created successfully", Post: post})
}

// ByUser godoc
// @Summary List posts created by a user
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Router /posts/user/{id} [get]
func (h *PostHandler) ByUser(c echo.Context) error {
	posts, err := h.svc.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary Get post by id
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete own post
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted successfully"})
}

// Like godoc
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security CookieAuth
// @Param id path string true "Post ID"
// @Success 200 {object} LikeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id}/like [post]
func (h *PostHandler) Like(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	state, err := h.svc.ToggleLike(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LikeResponse{Liked: state.Active, Count: state.Count})
}
