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

func newCartFixture() (*services.CartService, *fakeCartStore, *fakeProductStore) {
	cart := &fakeCartStore{}
	products := &fakeProductStore{}
	return services.NewCartService(cart, products), cart, products
}

func TestCartAddRejectsLowQuantity(t *testing.T) {
	svc, _, products := newCartFixture()
	p := products.add(models.Product{Name: "Aurora X1", Type: "phone", Price: 699})
	userID := primitive.NewObjectID().Hex()

	for _, qty := range []int{0, -1} {
		_, err := svc.Add(context.Background(), userID, services.AddInput{
			ProductID: p.ID.Hex(),
			Quantity:  qty,
		})
		assert.ErrorIs(t, err, services.ErrQuantityTooLow, "quantity %d", qty)
	}
}

func TestCartAddSnapshotsUnitPrice(t *testing.T) {
	svc, _, products := newCartFixture()
	p := products.add(models.Product{Name: "Aurora X1", Type: "phone", Price: 25})
	userID := primitive.NewObjectID().Hex()

	item, err := svc.Add(context.Background(), userID, services.AddInput{
		ProductID: p.ID.Hex(),
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, item.UnitPrice)
	assert.Equal(t, 50.0, item.TotalPrice)

	// A later price change must not affect the row's charged price.
	products.setPrice(p.ID, 99)

	updated, err := svc.SetQuantity(context.Background(), userID, item.ID.Hex(), 3)
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.UnitPrice)
	assert.Equal(t, 75.0, updated.TotalPrice)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.Add(context.Background(), primitive.NewObjectID().Hex(), services.AddInput{
		ProductID: primitive.NewObjectID().Hex(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCartSetQuantityRejectsLowQuantity(t *testing.T) {
	svc, _, products := newCartFixture()
	p := products.add(models.Product{Name: "Pulse Buds", Type: "accessory", Price: 129})
	userID := primitive.NewObjectID().Hex()

	item, err := svc.Add(context.Background(), userID, services.AddInput{
		ProductID: p.ID.Hex(),
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.SetQuantity(context.Background(), userID, item.ID.Hex(), 0)
	assert.ErrorIs(t, err, services.ErrQuantityTooLow)
}

func TestCartOwnershipEnforced(t *testing.T) {
	svc, _, products := newCartFixture()
	p := products.add(models.Product{Name: "Aurora X1", Type: "phone", Price: 699})
	owner := primitive.NewObjectID().Hex()
	intruder := primitive.NewObjectID().Hex()

	item, err := svc.Add(context.Background(), owner, services.AddInput{
		ProductID: p.ID.Hex(),
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.SetQuantity(context.Background(), intruder, item.ID.Hex(), 2)
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = svc.Remove(context.Background(), intruder, item.ID.Hex())
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCartListJoinsProducts(t *testing.T) {
	svc, _, products := newCartFixture()
	p := products.add(models.Product{Name: "Aurora X1", Type: "phone", Price: 699})
	userID := primitive.NewObjectID().Hex()

	_, err := svc.Add(context.Background(), userID, services.AddInput{
		ProductID: p.ID.Hex(),
		Quantity:  2,
	})
	require.NoError(t, err)

	// Price moves after the add; the join shows both the snapshot and the
	// live price.
	products.setPrice(p.ID, 649)

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Aurora X1", lines[0].ProductName)
	assert.Equal(t, "phone", lines[0].ProductType)
	assert.Equal(t, 699.0, lines[0].UnitPrice)
	assert.Equal(t, 649.0, lines[0].LivePrice)
}
