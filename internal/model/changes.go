package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// UserChanges is a partial update of a user. Nil fields are left untouched.
type UserChanges struct {
	Name          *string
	Email         *string
	PasswordHash  *string
	Role          *Role
	StreetAddress *string
	PostalCode    *string
	Phone         *string
	Bio           *string
	Avatar        *Image
	Cover         *Image
	Hobbies       *[]string
}

// SetDoc renders the changes as a $set document.
func (c UserChanges) SetDoc() bson.M {
	set := bson.M{}
	putString(set, "name", c.Name)
	putString(set, "email", c.Email)
	putString(set, "password", c.PasswordHash)
	if c.Role != nil {
		set["role"] = *c.Role
	}
	putString(set, "streetAddress", c.StreetAddress)
	putString(set, "postalCode", c.PostalCode)
	putString(set, "phone", c.Phone)
	putString(set, "bio", c.Bio)
	if c.Avatar != nil {
		set["avatar"] = *c.Avatar
	}
	if c.Cover != nil {
		set["cover"] = *c.Cover
	}
	if c.Hobbies != nil {
		set["hobbies"] = *c.Hobbies
	}
	return stamp(set)
}

// PostChanges is a partial update of a post.
type PostChanges struct {
	Title       *string
	Description *string
	Category    *[]string
	Street      *string
	PostalCode  *string
	Status      *PostStatus
}

// SetDoc renders the changes as a $set document.
func (c PostChanges) SetDoc() bson.M {
	set := bson.M{}
	putString(set, "title", c.Title)
	putString(set, "description", c.Description)
	if c.Category != nil {
		set["category"] = *c.Category
	}
	putString(set, "street", c.Street)
	putString(set, "postalCode", c.PostalCode)
	if c.Status != nil {
		set["status"] = *c.Status
	}
	return stamp(set)
}

// EventChanges is a partial update of an event.
type EventChanges struct {
	Title         *string
	Date          *time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	StreetAddress *string
	PostalCode    *string
	Description   *string
	Hobbies       *[]string
	EventImage    *Image
}

// SetDoc renders the changes as a $set document.
func (c EventChanges) SetDoc() bson.M {
	set := bson.M{}
	putString(set, "title", c.Title)
	if c.Date != nil {
		set["date"] = *c.Date
	}
	if c.StartTime != nil {
		set["startTime"] = *c.StartTime
	}
	if c.EndTime != nil {
		set["endTime"] = *c.EndTime
	}
	putString(set, "streetAddress", c.StreetAddress)
	putString(set, "postalCode", c.PostalCode)
	putString(set, "description", c.Description)
	if c.Hobbies != nil {
		set["hobbies"] = *c.Hobbies
	}
	if c.EventImage != nil {
		set["eventImage"] = *c.EventImage
	}
	return stamp(set)
}

func putString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func stamp(set bson.M) bson.M {
	set["updatedAt"] = time.Now().UTC()
	return set
}
