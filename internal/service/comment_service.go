package service

import (
	"context"
	"fmt"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/sanitize"
)

const (
	msgCommentNotFound  = "Comment not found"
	msgDeleteOwnComment = "You can only delete your own comment"
)

// CommentService exposes comment operations.
type CommentService interface {
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Create(ctx context.Context, caller *auth.Identity, postID, content string) (*model.Comment, error)
	Delete(ctx context.Context, caller *auth.Identity, postID, id string) error

	List(ctx context.Context) ([]model.Comment, error)
	Remove(ctx context.Context, id string) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService builds a CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

func (s *commentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	post, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, caller *auth.Identity, postID, content string) (*model.Comment, error) {
	post, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := parseID(caller.ID)
	if err != nil {
		return nil, err
	}

	text := sanitize.Text(content)
	if text == "" {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "content", Msg: "Content is required"}})
	}

	comment := &model.Comment{Content: text, Post: post.ID, Author: author}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Delete removes the caller's own comment. A comment that belongs to a
// different post is reported as missing.
func (s *commentService) Delete(ctx context.Context, caller *auth.Identity, postID, id string) error {
	pid, err := parseID(postID)
	if err != nil {
		return err
	}
	cid, err := parseID(id)
	if err != nil {
		return err
	}

	comment, err := s.comments.FindByID(ctx, cid)
	if err != nil {
		return notFound(err, msgCommentNotFound, "get comment")
	}
	if comment.Post != pid {
		return apperrors.NotFound(msgCommentNotFound)
	}
	if err := auth.RequireOwner(caller, comment.Author, msgDeleteOwnComment); err != nil {
		return err
	}

	if _, err := s.comments.DeleteByID(ctx, cid); err != nil {
		return notFound(err, msgCommentNotFound, "delete comment")
	}
	return nil
}

func (s *commentService) List(ctx context.Context) ([]model.Comment, error) {
	comments, err := s.comments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Remove(ctx context.Context, id string) error {
	cid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.comments.DeleteByID(ctx, cid); err != nil {
		return notFound(err, msgCommentNotFound, "delete comment")
	}
	return nil
}

func (s *commentService) post(ctx context.Context, postID string) (*model.Post, error) {
	pid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, pid)
	if err != nil {
		return nil, notFound(err, msgPostNotFound, "get post")
	}
	return post, nil
}
