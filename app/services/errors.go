// Package services implements the storefront's business rules on top of the
// repository interfaces. Controllers translate these errors into HTTP
// responses; tests exercise the services against in-memory fakes.
package services

import "errors"

var (
	// ErrNotFound covers any lookup that matched no document.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrQuantityTooLow rejects cart quantities below one.
	ErrQuantityTooLow = errors.New("quantity must be at least 1")

	// ErrCartEmpty rejects checkout on an empty cart.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrForbidden is returned when a user touches another user's data.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidStatus rejects unknown order status codes.
	ErrInvalidStatus = errors.New("invalid order status")
)
