package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/pkg/collection"
	"github.com/ndthang/techmart/pkg/event"
	"github.com/ndthang/techmart/pkg/workerpool"
)

// OrderReadStore is what order listing and admin management need.
type OrderReadStore interface {
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	FindByCode(ctx context.Context, code string) (models.Order, error)
	DetailsByCode(ctx context.Context, code string) ([]models.OrderDetail, error)
	UpdateStatus(ctx context.Context, id string, status int) error
	Delete(ctx context.Context, id string) error
}

// UserLookupStore is the read-side slice of the users collection used for
// joining orders to their customers.
type UserLookupStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// OrderStatusChangedPayload is fired when an admin moves an order's status.
type OrderStatusChangedPayload struct {
	OrderID     string
	Status      int
	StatusLabel string
}

// OrderService serves customer order history and admin order management.
type OrderService struct {
	orders   OrderReadStore
	products ProductStore
	users    UserLookupStore
	pool     *workerpool.Pool
}

func NewOrderService(orders OrderReadStore, products ProductStore, users UserLookupStore, pool *workerpool.Pool) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, pool: pool}
}

// OrderView is an order with its display label resolved.
type OrderView struct {
	models.Order
	StatusLabel string `json:"status_label"`
}

// AdminOrderView additionally joins the customer's contact details.
type AdminOrderView struct {
	OrderView
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
}

// DetailView is an order line joined to its product.
type DetailView struct {
	models.OrderDetail
	ProductName string  `json:"product_name"`
	ProductType string  `json:"product_type"`
	UnitPrice   float64 `json:"unit_price"`
}

// ForUser returns the user's orders.
func (s *OrderService) ForUser(ctx context.Context, userID string) ([]OrderView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	orders, err := s.orders.ByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("orders for user: %w", err)
	}
	return toViews(orders), nil
}

// Details returns the detail rows of one order, each joined to its product.
// The per-row product fetches fan out over the worker pool. A customer can
// only read their own orders; admins can read any.
func (s *OrderService) Details(ctx context.Context, userID, role, code string) ([]DetailView, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("order details: %w", err)
	}
	if role != models.RoleAdmin && order.UserID.Hex() != userID {
		return nil, ErrForbidden
	}

	details, err := s.orders.DetailsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("order details: %w", err)
	}

	views := make([]DetailView, len(details))
	err = s.pool.Batch(len(details), func(i int) error {
		views[i] = DetailView{OrderDetail: details[i]}
		p, err := s.products.FindByID(ctx, details[i].ProductID.Hex())
		if err != nil {
			// Product may have been deleted since the order; keep the row.
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return err
		}
		views[i].ProductName = p.Name
		views[i].ProductType = p.Type
		views[i].UnitPrice = p.Price
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("order details: join products: %w", err)
	}
	return views, nil
}

// AllForAdmin returns every order joined to its customer's email and phone.
func (s *OrderService) AllForAdmin(ctx context.Context) ([]AdminOrderView, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin orders: %w", err)
	}
	if len(orders) == 0 {
		return []AdminOrderView{}, nil
	}

	ids := collection.Map(orders, func(o models.Order) primitive.ObjectID { return o.UserID })
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("admin orders: join users: %w", err)
	}
	byID := collection.KeyBy(users, func(u models.User) primitive.ObjectID { return u.ID })

	views := make([]AdminOrderView, 0, len(orders))
	for _, o := range orders {
		view := AdminOrderView{OrderView: OrderView{Order: o, StatusLabel: models.StatusLabel(o.Status)}}
		if u, ok := byID[o.UserID]; ok {
			view.UserEmail = u.Email
			view.UserPhone = u.Phone
		}
		views = append(views, view)
	}
	return views, nil
}

// SetStatus moves an order to a new status (admin).
func (s *OrderService) SetStatus(ctx context.Context, orderID string, status int) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set order status: %w", err)
	}

	event.FireAsync(event.OrderStatusChanged, OrderStatusChangedPayload{
		OrderID:     orderID,
		Status:      status,
		StatusLabel: models.StatusLabel(status),
	})
	return nil
}

// Remove deletes an order and its detail rows (admin).
func (s *OrderService) Remove(ctx context.Context, orderID string) error {
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func toViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{Order: o, StatusLabel: models.StatusLabel(o.Status)})
	}
	return views
}
