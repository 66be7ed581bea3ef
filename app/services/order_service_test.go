package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/workerpool"
)

func newOrderFixture(t *testing.T) (*services.OrderService, *fakeOrderStore, *fakeProductStore, *fakeUserStore) {
	t.Helper()
	orders := &fakeOrderStore{}
	products := &fakeProductStore{}
	users := &fakeUserStore{}
	pool := workerpool.New(4)
	t.Cleanup(pool.Shutdown)
	return services.NewOrderService(orders, products, users, pool), orders, products, users
}

func placeOrder(orders *fakeOrderStore, userID primitive.ObjectID, details []models.OrderDetail) models.Order {
	order := models.Order{
		OrderCode:   primitive.NewObjectID().Hex(),
		UserID:      userID,
		Status:      models.StatusProcessing,
		TotalsPrice: 100,
		CreatedAt:   time.Now().UTC(),
	}
	for i := range details {
		details[i].OrderCode = order.OrderCode
		details[i].UserID = userID
	}
	_ = orders.Place(context.Background(), &order, details)
	return order
}

func TestOrderDetailsOwnership(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t)
	owner := primitive.NewObjectID()
	order := placeOrder(orders, owner, nil)

	_, err := svc.Details(context.Background(), primitive.NewObjectID().Hex(), models.RoleCustomer, order.OrderCode)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Details(context.Background(), owner.Hex(), models.RoleCustomer, order.OrderCode)
	assert.NoError(t, err)

	// Admins can read any order.
	_, err = svc.Details(context.Background(), primitive.NewObjectID().Hex(), models.RoleAdmin, order.OrderCode)
	assert.NoError(t, err)
}

func TestOrderDetailsJoinToleratesDeletedProduct(t *testing.T) {
	svc, orders, products, _ := newOrderFixture(t)
	owner := primitive.NewObjectID()

	kept := products.add(models.Product{Name: "Aurora X1", Type: "phone", Price: 699})
	order := placeOrder(orders, owner, []models.OrderDetail{
		{ProductID: kept.ID, Quantity: 1, TotalPrice: 699},
		{ProductID: primitive.NewObjectID(), Quantity: 2, TotalPrice: 80},
	})

	views, err := svc.Details(context.Background(), owner.Hex(), models.RoleCustomer, order.OrderCode)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byProduct := map[primitive.ObjectID]services.DetailView{}
	for _, v := range views {
		byProduct[v.ProductID] = v
	}
	assert.Equal(t, "Aurora X1", byProduct[kept.ID].ProductName)
	for id, v := range byProduct {
		if id == kept.ID {
			continue
		}
		assert.Empty(t, v.ProductName, "deleted product keeps its row, blank name")
		assert.Equal(t, 80.0, v.TotalPrice)
	}
}

func TestOrderDetailsUnknownCode(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	_, err := svc.Details(context.Background(), primitive.NewObjectID().Hex(), models.RoleCustomer, "no-such-code")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderSetStatus(t *testing.T) {
	svc, orders, _, _ := newOrderFixture(t)
	order := placeOrder(orders, primitive.NewObjectID(), nil)

	err := svc.SetStatus(context.Background(), order.ID.Hex(), 9)
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	require.NoError(t, svc.SetStatus(context.Background(), order.ID.Hex(), models.StatusCompleted))
	got, err := orders.FindByCode(context.Background(), order.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestOrdersAllForAdminJoinsUsers(t *testing.T) {
	svc, orders, _, users := newOrderFixture(t)
	customer := users.add(models.User{Email: "buyer@example.com", Phone: "+10000000001"})
	placeOrder(orders, customer.ID, nil)

	views, err := svc.AllForAdmin(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "buyer@example.com", views[0].UserEmail)
	assert.Equal(t, models.StatusLabel(models.StatusProcessing), views[0].StatusLabel)
}

func TestOrderRemoveDeletesDetails(t *testing.T) {
	svc, orders, products, _ := newOrderFixture(t)
	p := products.add(models.Product{Name: "Aurora X1", Price: 699})
	order := placeOrder(orders, primitive.NewObjectID(), []models.OrderDetail{
		{ProductID: p.ID, Quantity: 1, TotalPrice: 699},
	})

	require.NoError(t, svc.Remove(context.Background(), order.ID.Hex()))

	_, err := orders.FindByCode(context.Background(), order.OrderCode)
	assert.ErrorIs(t, err, services.ErrNotFound)
	details, err := orders.DetailsByCode(context.Background(), order.OrderCode)
	require.NoError(t, err)
	assert.Empty(t, details)
}
