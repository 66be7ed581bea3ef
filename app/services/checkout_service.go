package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/pkg/collection"
	"github.com/ndthang/techmart/pkg/event"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/metrics"
)

// OrderStore is what checkout needs from the orders collection.
type OrderStore interface {
	Place(ctx context.Context, order *models.Order, details []models.OrderDetail) error
	FindByIdempotencyKey(ctx context.Context, key string) (models.Order, error)
}

// OrderPlacedPayload is the event payload fired after a committed checkout.
type OrderPlacedPayload struct {
	Order models.Order
	Email string
}

// CheckoutService turns a cart into an order. The order insert, the detail
// inserts and the cart wipe commit or roll back together, so no partial
// checkout is ever visible.
type CheckoutService struct {
	orders OrderStore
	cart   CartStore
	users  UserStore
}

func NewCheckoutService(orders OrderStore, cart CartStore, users UserStore) *CheckoutService {
	return &CheckoutService{orders: orders, cart: cart, users: users}
}

// Checkout places an order from the user's current cart rows.
//
// idempotencyKey may be empty. When set and an order already exists under
// that key, the existing order is returned and nothing is written, so a
// client retrying a timed-out submit cannot double-purchase.
func (s *CheckoutService) Checkout(ctx context.Context, userID, idempotencyKey string) (models.Order, error) {
	if idempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			metrics.OrdersReplayed.Inc()
			logger.WithCtx(ctx).Info("checkout replayed",
				"order_code", existing.OrderCode, "idempotency_key", idempotencyKey)
			return existing, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return models.Order{}, fmt.Errorf("checkout: idempotency lookup: %w", err)
		}
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	items, err := s.cart.ByUser(ctx, uid)
	if err != nil {
		return models.Order{}, fmt.Errorf("checkout: load cart: %w", err)
	}
	if len(items) == 0 {
		return models.Order{}, ErrCartEmpty
	}

	code := uuid.NewString()
	order := models.Order{
		OrderCode:      code,
		UserID:         uid,
		Status:         models.StatusProcessing,
		TotalsPrice:    collection.Sum(items, func(i models.CartItem) float64 { return i.TotalPrice }),
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}

	details := collection.Map(items, func(i models.CartItem) models.OrderDetail {
		return models.OrderDetail{
			OrderCode:  code,
			ProductID:  i.ProductID,
			UserID:     uid,
			Quantity:   i.Quantity,
			TotalPrice: i.TotalPrice,
		}
	})

	if err := s.orders.Place(ctx, &order, details); err != nil {
		return models.Order{}, fmt.Errorf("checkout: place order: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_code", order.OrderCode, "totals_price", order.TotalsPrice, "items", len(details))

	payload := OrderPlacedPayload{Order: order}
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		payload.Email = user.Email
	}
	event.FireAsync(event.OrderPlaced, payload)

	return order, nil
}
