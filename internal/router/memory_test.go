package router

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
)

// In-memory repositories used to drive the full HTTP stack in tests.

type memUsers struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]model.User
	order []primitive.ObjectID
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[primitive.ObjectID]model.User{}}
}

func (r *memUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *memUsers) public(u model.User) *model.User {
	u.PasswordHash = ""
	return &u
}

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.public(u), nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := r.FindByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	return r.public(*u), nil
}

func (r *memUsers) FindByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) FindByPostalCode(_ context.Context, postalCode string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok && u.PostalCode == postalCode {
			out = append(out, *r.public(u))
		}
	}
	return out, nil
}

func (r *memUsers) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok {
			out = append(out, *r.public(u))
		}
	}
	return out, nil
}

func (r *memUsers) UpdateByID(_ context.Context, id primitive.ObjectID, c model.UserChanges) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.PostalCode != nil {
		u.PostalCode = *c.PostalCode
	}
	if c.Bio != nil {
		u.Bio = *c.Bio
	}
	r.byID[id] = u
	return r.public(u), nil
}

func (r *memUsers) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.byID, id)
	return r.public(u), nil
}

func (r *memUsers) hash(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u.PasswordHash
		}
	}
	return ""
}

type memPosts struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.Post
}

func newMemPosts() *memPosts {
	return &memPosts{byID: map[primitive.ObjectID]model.Post{}}
}

func (r *memPosts) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	r.byID[post.ID] = *post
	return nil
}

func (r *memPosts) FindByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memPosts) filter(keep func(model.Post) bool) []model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Post{}
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memPosts) List(_ context.Context) ([]model.Post, error) {
	return r.filter(func(model.Post) bool { return true }), nil
}

func (r *memPosts) FindByPostalCode(_ context.Context, postalCode string) ([]model.Post, error) {
	return r.filter(func(p model.Post) bool { return p.PostalCode == postalCode }), nil
}

func (r *memPosts) FindByCreator(_ context.Context, userID primitive.ObjectID) ([]model.Post, error) {
	return r.filter(func(p model.Post) bool { return p.CreatedBy == userID }), nil
}

func (r *memPosts) UpdateByID(_ context.Context, id primitive.ObjectID, c model.PostChanges) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
	r.byID[id] = p
	return &p, nil
}

func (r *memPosts) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.byID, id)
	return &p, nil
}

type memComments struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]model.Comment
}

func newMemComments() *memComments {
	return &memComments{byID: map[primitive.ObjectID]model.Comment{}}
}

func (r *memComments) Create(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	r.byID[comment.ID] = *comment
	return nil
}

func (r *memComments) FindByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *memComments) FindByPost(_ context.Context, postID primitive.ObjectID) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Comment{}
	for _, c := range r.byID {
		if c.Post == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memComments) List(_ context.Context) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Comment{}
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *memComments) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.byID, id)
	return &c, nil
}

func (r *memComments) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.byID {
		if c.Post == postID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

type pair struct {
	target, user primitive.ObjectID
}

type memToggles struct {
	mu  sync.Mutex
	set map[pair]bool
}

func newMemToggles() *memToggles {
	return &memToggles{set: map[pair]bool{}}
}

func (r *memToggles) count(target primitive.ObjectID) int64 {
	var n int64
	for p := range r.set {
		if p.target == target {
			n++
		}
	}
	return n
}

func (r *memToggles) Toggle(_ context.Context, target, user primitive.ObjectID) (*model.ToggleState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pair{target, user}
	active := !r.set[key]
	if active {
		r.set[key] = true
	} else {
		delete(r.set, key)
	}
	return &model.ToggleState{Active: active, Count: r.count(target)}, nil
}

func (r *memToggles) Count(_ context.Context, target primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count(target), nil
}

func (r *memToggles) DeleteByTarget(_ context.Context, target primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for p := range r.set {
		if p.target == target {
			delete(r.set, p)
			n++
		}
	}
	return n, nil
}

// noEvents satisfies EventRepository for tests that never touch events.
type noEvents struct{}

func (noEvents) Create(context.Context, *model.Event) error { return nil }
func (noEvents) FindByID(context.Context, primitive.ObjectID) (*model.Event, error) {
	return nil, repository.ErrNotFound
}
func (noEvents) List(context.Context) ([]model.Event, error) { return []model.Event{}, nil }
func (noEvents) FindByPostalCode(context.Context, string) ([]model.Event, error) {
	return []model.Event{}, nil
}
func (noEvents) FindByCreator(context.Context, primitive.ObjectID) ([]model.Event, error) {
	return []model.Event{}, nil
}
func (noEvents) UpdateByID(context.Context, primitive.ObjectID, model.EventChanges) (*model.Event, error) {
	return nil, repository.ErrNotFound
}
func (noEvents) DeleteByID(context.Context, primitive.ObjectID) (*model.Event, error) {
	return nil, repository.ErrNotFound
}

type noMedia struct{}

func (noMedia) Upload(context.Context, string, []byte) (*model.Image, error) {
	return &model.Image{URL: "https://media.test/x.png", Key: "avatars/x.png"}, nil
}
func (noMedia) Delete(context.Context, string) {}
