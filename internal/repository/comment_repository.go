package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neighborconnect/internal/model"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository builds a MongoDB-backed repository.
func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{coll: db.Collection(commentsCollection)}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	ts := now()
	comment.CreatedAt, comment.UpdatedAt = ts, ts
	id, err := insert(ctx, r.coll, comment)
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	return findOne[model.Comment](ctx, r.coll, bson.M{"_id": id})
}

func (r *commentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]model.Comment, error) {
	return findMany[model.Comment](ctx, r.coll, bson.M{"post": postID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
}

func (r *commentRepository) List(ctx context.Context) ([]model.Comment, error) {
	return findMany[model.Comment](ctx, r.coll, bson.M{}, newestFirst())
}

func (r *commentRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	return deleteByID[model.Comment](ctx, r.coll, id, nil)
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, fmt.Errorf("delete comments of post %s: %w", postID.Hex(), err)
	}
	return res.DeletedCount, nil
}
