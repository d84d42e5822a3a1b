package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neighborconnect/internal/model"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	FindByPostalCode(ctx context.Context, postalCode string) ([]model.Event, error)
	FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]model.Event, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.EventChanges) (*model.Event, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
}

type eventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository builds a MongoDB-backed repository.
func NewEventRepository(db *mongo.Database) EventRepository {
	return &eventRepository{coll: db.Collection(eventsCollection)}
}

func byDate() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	ts := now()
	event.CreatedAt, event.UpdatedAt = ts, ts
	id, err := insert(ctx, r.coll, event)
	if err != nil {
		return err
	}
	event.ID = id
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	return findOne[model.Event](ctx, r.coll, bson.M{"_id": id})
}

func (r *eventRepository) List(ctx context.Context) ([]model.Event, error) {
	return findMany[model.Event](ctx, r.coll, bson.M{}, byDate())
}

func (r *eventRepository) FindByPostalCode(ctx context.Context, postalCode string) ([]model.Event, error) {
	return findMany[model.Event](ctx, r.coll, bson.M{"postalCode": postalCode}, byDate())
}

func (r *eventRepository) FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]model.Event, error) {
	return findMany[model.Event](ctx, r.coll, bson.M{"createdBy": userID}, byDate())
}

func (r *eventRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.EventChanges) (*model.Event, error) {
	return updateByID[model.Event](ctx, r.coll, id, changes.SetDoc(), nil)
}

func (r *eventRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	return deleteByID[model.Event](ctx, r.coll, id, nil)
}
