// Package mongodb manages the shared MongoDB client and database handle.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ndthang/techmart/config"
	"github.com/ndthang/techmart/pkg/logger"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect dials MongoDB using MONGO_URI / MONGO_DB from config and verifies
// the connection with a ping. Call once at boot.
func Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	c, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := c.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("mongodb: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDB())
	logger.Info("mongodb: connected", "db", config.MongoDB())
	return nil
}

// Client returns the shared client. Panics before Connect.
func Client() *mongo.Client {
	if client == nil {
		panic("mongodb: Client called before Connect")
	}
	return client
}

// DB returns the application database handle. Panics before Connect.
func DB() *mongo.Database {
	if db == nil {
		panic("mongodb: DB called before Connect")
	}
	return db
}

// Collection is shorthand for DB().Collection(name).
func Collection(name string) *mongo.Collection {
	return DB().Collection(name)
}

// Ping verifies the primary is reachable. Used by health checks.
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("mongodb: not connected")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary())
}

// Disconnect closes the client. Call on shutdown.
func Disconnect(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("mongodb: disconnect", "error", err)
	}
	client = nil
	db = nil
}
