package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
)

// UserAdminStore is what admin user management needs.
type UserAdminStore interface {
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// UserAdminService implements the admin user management surface. This is
// the only flow that can change a user's role.
type UserAdminService struct {
	users UserAdminStore
}

func NewUserAdminService(users UserAdminStore) *UserAdminService {
	return &UserAdminService{users: users}
}

// All returns every user document (password hashes are never serialised).
func (s *UserAdminService) All(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UserUpdateInput is the admin user edit payload.
type UserUpdateInput struct {
	Email   string `json:"email"   validate:"required,email"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone"   validate:"required,phone"`
	Role    string `json:"role"    validate:"required,in=admin,customer"`
}

// Update edits a user's contact details and role.
func (s *UserAdminService) Update(ctx context.Context, id string, in UserUpdateInput) error {
	fields := bson.M{
		"email":   in.Email,
		"address": in.Address,
		"phone":   in.Phone,
		"role":    in.Role,
	}
	if err := s.users.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("admin user update: %w", err)
	}
	return nil
}

// Remove deletes a user account.
func (s *UserAdminService) Remove(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("admin user delete: %w", err)
	}
	return nil
}
