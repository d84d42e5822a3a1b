package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role drives authorization gating.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Image is a reference to an object in the media store.
type Image struct {
	URL string `bson:"url" json:"url"`
	Key string `bson:"key,omitempty" json:"key,omitempty"`
}

// User is a registered member or administrator. The password hash is only
// loaded by the explicit credential lookups and is never serialized.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password,omitempty" json:"-"`
	Role          Role               `bson:"role" json:"role"`
	StreetAddress string             `bson:"streetAddress" json:"streetAddress"`
	PostalCode    string             `bson:"postalCode" json:"postalCode"`
	Phone         string             `bson:"phone" json:"phone"`
	Bio           string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar        *Image             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Cover         *Image             `bson:"cover,omitempty" json:"cover,omitempty"`
	Hobbies       []string           `bson:"hobbies,omitempty" json:"hobbies,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
