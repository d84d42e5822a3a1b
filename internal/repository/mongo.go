package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	eventsCollection   = "events"
	commentsCollection = "comments"
	likesCollection    = "likes"
	rsvpsCollection    = "rsvps"
)

// EnsureIndexes creates the indexes the application relies on for
// correctness (uniqueness) and for the by-zip and by-owner listings.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "postalCode", Value: 1}}},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "postalCode", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "postalCode", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		likesCollection: {
			{Keys: bson.D{{Key: "target", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		rsvpsCollection: {
			{Keys: bson.D{{Key: "target", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicate
		}
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func updateByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set bson.M, projection interface{}) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc T
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrDuplicate
	case err != nil:
		return nil, fmt.Errorf("update %s %s: %w", coll.Name(), id.Hex(), err)
	}
	return &doc, nil
}

func deleteByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, projection interface{}) (*T, error) {
	opts := options.FindOneAndDelete()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc T
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %s %s: %w", coll.Name(), id.Hex(), err)
	}
	return &doc, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
