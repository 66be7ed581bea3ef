// Package repositories holds the MongoDB persistence layer. Each repository
// wraps one collection; services depend on the interfaces they declare, so
// tests can swap these for in-memory fakes.
package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("repositories: document not found")

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
