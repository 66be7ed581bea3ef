package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user document can carry. Registration always assigns RoleCustomer;
// only the admin user-management flow can grant RoleAdmin.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a document in the users collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"          json:"email"`
	PasswordHash string             `bson:"password_hash"  json:"-"` // never serialised
	Address      string             `bson:"address"        json:"address"`
	Phone        string             `bson:"phone"          json:"phone"`
	Role         string             `bson:"role"           json:"role"`
	CreatedAt    time.Time          `bson:"created_at"     json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
