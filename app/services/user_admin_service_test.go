package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/services"
)

func TestUserAdminUpdateRole(t *testing.T) {
	users := &fakeUserStore{}
	svc := services.NewUserAdminService(users)
	user := users.add(models.User{Email: "buyer@example.com", Role: models.RoleCustomer})

	err := svc.Update(context.Background(), user.ID.Hex(), services.UserUpdateInput{
		Email:   "buyer@example.com",
		Address: "1 Main St",
		Phone:   "+12025550100",
		Role:    models.RoleAdmin,
	})
	require.NoError(t, err)

	got, err := users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestUserAdminUpdateUnknownUser(t *testing.T) {
	svc := services.NewUserAdminService(&fakeUserStore{})

	err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), services.UserUpdateInput{
		Email:   "x@example.com",
		Address: "1 Main St",
		Phone:   "+12025550100",
		Role:    models.RoleCustomer,
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserAdminRemove(t *testing.T) {
	users := &fakeUserStore{}
	svc := services.NewUserAdminService(users)
	user := users.add(models.User{Email: "buyer@example.com"})

	require.NoError(t, svc.Remove(context.Background(), user.ID.Hex()))

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
