package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/pkg/auth"
	"github.com/ndthang/techmart/pkg/cache"
	"github.com/ndthang/techmart/pkg/event"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/middleware"
)

// UserStore is what AuthService needs from the users collection.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, fields bson.M) error
}

// AuthService implements registration, login, logout and profile access.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput carries the sign-up payload. Note there is no role field:
// every new account is a customer.
type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"  validate:"required"`
	Phone    string `json:"phone"    validate:"required,phone"`
}

// Register creates a customer account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Phone:        in.Phone,
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("register: create user: %w", err)
	}

	event.FireAsync(event.UserRegistered, user)
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	return user, nil
}

// Login verifies credentials and returns a signed token plus the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("login: lookup email: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return "", models.User{}, fmt.Errorf("login: sign token: %w", err)
	}
	return token, user, nil
}

// Logout denylists the presented token in Redis until it would have
// expired anyway, so it can no longer pass the auth middleware.
func (s *AuthService) Logout(token string) error {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		// Already invalid; nothing to revoke.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return cache.Set(middleware.DenylistKey(token), true, ttl)
}

// Profile returns the current user's document.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

// ProfileInput carries the self-service profile update; role is absent on
// purpose — only the admin flow can change roles.
type ProfileInput struct {
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone"   validate:"required,phone"`
}

// UpdateProfile lets a user change their own address and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (models.User, error) {
	fields := bson.M{"address": in.Address, "phone": in.Phone}
	if err := s.users.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx, userID)
}
