package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates the default admin account if no admin exists yet.
func SeedUsers(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("users")

	n, err := coll.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        "admin@techmart.local",
		PasswordHash: hash,
		Address:      "1 Techmart HQ",
		Phone:        "+10000000000",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	_, err = coll.InsertOne(ctx, admin)
	return err
}
