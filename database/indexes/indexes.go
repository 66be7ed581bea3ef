// Package indexes declares the Mongo indexes the application relies on.
// Run via CLI: techmart db:indexes
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ensure creates every index, skipping those that already exist.
func Ensure(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"products": {
			{Keys: bson.D{{Key: "type", Value: 1}}},
		},
		"cart": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"orders": {
			{
				Keys:    bson.D{{Key: "order_code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			// Sparse so orders placed without an Idempotency-Key don't
			// collide on the missing field.
			{
				Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"order_details": {
			{Keys: bson.D{{Key: "order_code", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
