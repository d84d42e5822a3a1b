package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultEventImage is used when an event is created without an upload. It is
// shared by many events and must never be deleted from the media store.
var DefaultEventImage = Image{
	URL: "https://media.neighborconnect.app/defaults/event.webp",
	Key: "defaults/event.webp",
}

// Event is a local gathering organised by a member.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventImage    Image              `bson:"eventImage" json:"eventImage"`
	Title         string             `bson:"title" json:"title"`
	Date          time.Time          `bson:"date" json:"date"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	EndTime       time.Time          `bson:"endTime" json:"endTime"`
	StreetAddress string             `bson:"streetAddress" json:"streetAddress"`
	PostalCode    string             `bson:"postalCode" json:"postalCode"`
	Description   string             `bson:"description" json:"description"`
	Hobbies       []string           `bson:"hobbies,omitempty" json:"hobbies,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
