package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatus tracks a help request through its lifecycle.
type PostStatus string

const (
	PostStatusOpen       PostStatus = "open"
	PostStatusInProgress PostStatus = "in progress"
	PostStatusClosed     PostStatus = "closed"
)

// Post is a help request published by a member.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    []string           `bson:"category,omitempty" json:"category,omitempty"`
	Street      string             `bson:"street" json:"street"`
	PostalCode  string             `bson:"postalCode" json:"postalCode"`
	Status      PostStatus         `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
