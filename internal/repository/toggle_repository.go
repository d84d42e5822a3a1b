package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"neighborconnect/internal/model"
)

// ToggleRepository stores one record per (target, user) pair. It backs both
// likes and RSVPs.
type ToggleRepository interface {
	// Toggle adds the pair if absent and removes it if present.
	Toggle(ctx context.Context, target, user primitive.ObjectID) (*model.ToggleState, error)
	Count(ctx context.Context, target primitive.ObjectID) (int64, error)
	DeleteByTarget(ctx context.Context, target primitive.ObjectID) (int64, error)
}

type toggleRepository struct {
	coll *mongo.Collection
}

// NewLikeRepository returns the likes store shared by posts and events.
func NewLikeRepository(db *mongo.Database) ToggleRepository {
	return &toggleRepository{coll: db.Collection(likesCollection)}
}

// NewRSVPRepository returns the event attendance store.
func NewRSVPRepository(db *mongo.Database) ToggleRepository {
	return &toggleRepository{coll: db.Collection(rsvpsCollection)}
}

// Toggle relies on the unique (target, user) index: the insert either wins or
// reports a duplicate, in which case the existing record is removed. Two
// concurrent toggles by the same user therefore never leave two records.
func (r *toggleRepository) Toggle(ctx context.Context, target, user primitive.ObjectID) (*model.ToggleState, error) {
	_, err := insert(ctx, r.coll, model.Toggle{Target: target, User: user, CreatedAt: now()})
	active := true
	if errors.Is(err, ErrDuplicate) {
		if _, err := r.coll.DeleteOne(ctx, bson.M{"target": target, "user": user}); err != nil {
			return nil, fmt.Errorf("remove %s toggle: %w", r.coll.Name(), err)
		}
		active = false
	} else if err != nil {
		return nil, err
	}

	count, err := r.Count(ctx, target)
	if err != nil {
		return nil, err
	}
	return &model.ToggleState{Active: active, Count: count}, nil
}

func (r *toggleRepository) Count(ctx context.Context, target primitive.ObjectID) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"target": target})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.coll.Name(), err)
	}
	return n, nil
}

func (r *toggleRepository) DeleteByTarget(ctx context.Context, target primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"target": target})
	if err != nil {
		return 0, fmt.Errorf("delete %s of %s: %w", r.coll.Name(), target.Hex(), err)
	}
	return res.DeletedCount, nil
}
