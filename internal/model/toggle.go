package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Toggle records that a user liked (or RSVP'd to) a target document. Each
// (target, user) pair exists at most once, enforced by a unique index.
type Toggle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Target    primitive.ObjectID `bson:"target" json:"target"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ToggleState is the outcome of a like/RSVP toggle.
type ToggleState struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
