package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

// CommentHandler serves comments nested under a post.
type CommentHandler struct {
	svc service.CommentService
}

// NewCommentHandler creates a handler layer.
func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// CreateCommentRequest is the body of a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentCreatedResponse is returned after a comment is posted.
type CommentCreatedResponse struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}

// List godoc
// @Summary List comments on a post
// @Tags comments
// @Produce json
// @Security CookieAuth
// @Param postId path string true "Post ID"
// @Success 200 {array} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.svc.ListByPost(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Create godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param postId path string true "Post ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CommentCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{postId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.svc.Create(c.Request().Context(), caller, c.Param("postId"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CommentCreatedResponse{Message: "Comment posted", Comment: comment})
}

// Delete godoc
// @Summary Delete own comment
// @Tags comments
// @Produce json
// @Security CookieAuth
// @Param postId path string true "Post ID"
// @Param id path string true "Comment ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{postId}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), caller, c.Param("postId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
