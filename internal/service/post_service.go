package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"neighborconnect/internal/auth"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/sanitize"
)

const (
	msgPostNotFound = "Post not found"
	msgNotPostOwner = "You are not the owner of this post!"
)

// PostInput is a new help request.
type PostInput struct {
	Title       string
	Description string
	Category    []string
	Street      string
	PostalCode  string
	Status      model.PostStatus
}

// PostUpdate is an admin edit of a post.
type PostUpdate struct {
	Title       *string
	Description *string
	Category    *[]string
	Street      *string
	PostalCode  *string
	Status      *model.PostStatus
}

// PostService exposes post operations.
type PostService interface {
	List(ctx context.Context) ([]model.Post, error)
	ListNearby(ctx context.Context, caller *auth.Identity) ([]model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, caller *auth.Identity, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, caller *auth.Identity, id string) error
	ToggleLike(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error)

	Update(ctx context.Context, id string, in PostUpdate) (*model.Post, error)
	Remove(ctx context.Context, id string) error
}

type postService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	likes    repository.ToggleRepository
	feed     feed
}

// NewPostService builds a PostService. cache may be nil.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	likes repository.ToggleRepository,
	cache FeedCache,
	cacheTTL time.Duration,
) PostService {
	return &postService{
		posts:    posts,
		users:    users,
		comments: comments,
		likes:    likes,
		feed:     feed{cache: cache, prefix: "posts", ttl: cacheTTL},
	}
}

func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListNearby returns the posts in the caller's postal code.
func (s *postService) ListNearby(ctx context.Context, caller *auth.Identity) ([]model.Post, error) {
	postalCode, err := callerPostalCode(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	var posts []model.Post
	if s.feed.get(ctx, postalCode, &posts) {
		return posts, nil
	}

	posts, err = s.posts.FindByPostalCode(ctx, postalCode)
	if err != nil {
		return nil, fmt.Errorf("list posts by postal code: %w", err)
	}
	s.feed.put(ctx, postalCode, posts)
	return posts, nil
}

func (s *postService) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.FindByCreator(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, oid)
	if err != nil {
		return nil, notFound(err, msgPostNotFound, "get post")
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, caller *auth.Identity, in PostInput) (*model.Post, error) {
	owner, err := parseID(caller.ID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.PostStatusOpen
	}
	post := &model.Post{
		Title:       sanitize.Text(in.Title),
		Description: sanitize.Text(in.Description),
		Category:    sanitize.Strings(in.Category),
		Street:      sanitize.Text(in.Street),
		PostalCode:  strings.TrimSpace(in.PostalCode),
		Status:      status,
		CreatedBy:   owner,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.feed.invalidate(ctx, post.PostalCode)
	return post, nil
}

// Delete removes a post owned by the caller.
func (s *postService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(caller, post.CreatedBy, msgNotPostOwner); err != nil {
		return err
	}
	return s.remove(ctx, post.ID)
}

func (s *postService) ToggleLike(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := parseID(caller.ID)
	if err != nil {
		return nil, err
	}
	state, err := s.likes.Toggle(ctx, post.ID, user)
	if err != nil {
		return nil, fmt.Errorf("toggle post like: %w", err)
	}
	return state, nil
}

func (s *postService) Update(ctx context.Context, id string, in PostUpdate) (*model.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	before, err := s.posts.FindByID(ctx, oid)
	if err != nil {
		return nil, notFound(err, msgPostNotFound, "get post")
	}

	changes := model.PostChanges{
		Title:       sanitize.Ptr(in.Title),
		Description: sanitize.Ptr(in.Description),
		Street:      sanitize.Ptr(in.Street),
		PostalCode:  trimPtr(in.PostalCode),
		Status:      in.Status,
	}
	if in.Category != nil {
		category := sanitize.Strings(*in.Category)
		changes.Category = &category
	}

	post, err := s.posts.UpdateByID(ctx, oid, changes)
	if err != nil {
		return nil, notFound(err, msgPostNotFound, "update post")
	}
	s.feed.invalidate(ctx, before.PostalCode, post.PostalCode)
	return post, nil
}

// Remove deletes any post regardless of owner.
func (s *postService) Remove(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.remove(ctx, oid)
}

// remove deletes the post and then its comments and likes.
func (s *postService) remove(ctx context.Context, id primitive.ObjectID) error {
	post, err := s.posts.DeleteByID(ctx, id)
	if err != nil {
		return notFound(err, msgPostNotFound, "delete post")
	}
	if _, err := s.comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := s.likes.DeleteByTarget(ctx, id); err != nil {
		return fmt.Errorf("delete post likes: %w", err)
	}
	s.feed.invalidate(ctx, post.PostalCode)
	return nil
}

func callerPostalCode(ctx context.Context, users repository.UserRepository, caller *auth.Identity) (string, error) {
	oid, err := parseID(caller.ID)
	if err != nil {
		return "", err
	}
	user, err := users.FindByID(ctx, oid)
	if err != nil {
		return "", notFound(err, msgUserNotFound, "get caller")
	}
	return user.PostalCode, nil
}
