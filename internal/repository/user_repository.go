package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neighborconnect/internal/model"
)

// withoutPassword is applied to every user read except the credential lookup.
var withoutPassword = bson.M{"password": 0}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByEmailWithPassword is the only read that loads the password hash.
	FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	FindByPostalCode(ctx context.Context, postalCode string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.UserChanges) (*model.User, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository builds a MongoDB-backed repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

// Create inserts the user. A concurrent signup with the same email loses on
// the unique index and gets ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts
	if user.Role == "" {
		user.Role = model.RoleMember
	}
	id, err := insert(ctx, r.coll, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPassword))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"email": email}, options.FindOne().SetProjection(withoutPassword))
}

func (r *userRepository) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	user, err := findOne[model.User](ctx, r.coll, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, errors.New("user record has no password hash")
	}
	return user, nil
}

func (r *userRepository) FindByPostalCode(ctx context.Context, postalCode string) ([]model.User, error) {
	return findMany[model.User](ctx, r.coll, bson.M{"postalCode": postalCode}, newestFirst().SetProjection(withoutPassword))
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return findMany[model.User](ctx, r.coll, bson.M{}, newestFirst().SetProjection(withoutPassword))
}

func (r *userRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, changes model.UserChanges) (*model.User, error) {
	return updateByID[model.User](ctx, r.coll, id, changes.SetDoc(), withoutPassword)
}

func (r *userRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return deleteByID[model.User](ctx, r.coll, id, withoutPassword)
}
