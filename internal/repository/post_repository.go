package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"neighborconnect/internal/model"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	FindByPostalCode(ctx context.Context, postalCode string) ([]model.Post, error)
	FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]model.Post, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.PostChanges) (*model.Post, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
}

type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository builds a MongoDB-backed repository.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection(postsCollection)}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	ts := now()
	post.CreatedAt, post.UpdatedAt = ts, ts
	id, err := insert(ctx, r.coll, post)
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	return findOne[model.Post](ctx, r.coll, bson.M{"_id": id})
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	return findMany[model.Post](ctx, r.coll, bson.M{}, newestFirst())
}

func (r *postRepository) FindByPostalCode(ctx context.Context, postalCode string) ([]model.Post, error) {
	return findMany[model.Post](ctx, r.coll, bson.M{"postalCode": postalCode}, newestFirst())
}

func (r *postRepository) FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]model.Post, error) {
	return findMany[model.Post](ctx, r.coll, bson.M{"createdBy": userID}, newestFirst())
}

func (r *postRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.PostChanges) (*model.Post, error) {
	return updateByID[model.Post](ctx, r.coll, id, changes.SetDoc(), nil)
}

func (r *postRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	return deleteByID[model.Post](ctx, r.coll, id, nil)
}
