package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/pkg/collection"
)

// CartStore is what CartService needs from the cart collection.
type CartStore interface {
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	FindByID(ctx context.Context, id string) (models.CartItem, error)
	Add(ctx context.Context, item *models.CartItem) error
	SetQuantity(ctx context.Context, id string, quantity int, totalPrice float64) error
	Delete(ctx context.Context, id string) error
}

// CartService implements the cart mutations. Quantity below one is rejected
// before any write; unit price is snapshotted at add time and never changes.
type CartService struct {
	cart     CartStore
	products ProductStore
}

func NewCartService(cart CartStore, products ProductStore) *CartService {
	return &CartService{cart: cart, products: products}
}

// CartLine is a cart row joined to its product's display fields. The price
// charged stays the snapshot; LivePrice shows the product's current price.
type CartLine struct {
	models.CartItem
	ProductName string  `json:"product_name"`
	ProductType string  `json:"product_type"`
	LivePrice   float64 `json:"live_price"`
}

// AddInput is the add-to-cart payload.
type AddInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
}

// Add inserts a cart row for the user, snapshotting the product's current
// price as the row's immutable unit price.
func (s *CartService) Add(ctx context.Context, userID string, in AddInput) (models.CartItem, error) {
	if in.Quantity < 1 {
		return models.CartItem{}, ErrQuantityTooLow
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.CartItem{}, ErrNotFound
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartItem{}, ErrNotFound
		}
		return models.CartItem{}, fmt.Errorf("cart add: product: %w", err)
	}

	item := models.CartItem{
		UserID:     uid,
		ProductID:  product.ID,
		Quantity:   in.Quantity,
		UnitPrice:  product.Price,
		TotalPrice: float64(in.Quantity) * product.Price,
	}
	if err := s.cart.Add(ctx, &item); err != nil {
		return models.CartItem{}, fmt.Errorf("cart add: %w", err)
	}
	return item, nil
}

// List returns the user's cart rows joined to their products.
func (s *CartService) List(ctx context.Context, userID string) ([]CartLine, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	items, err := s.cart.ByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("cart list: %w", err)
	}
	if len(items) == 0 {
		return []CartLine{}, nil
	}

	ids := collection.Map(items, func(i models.CartItem) primitive.ObjectID { return i.ProductID })
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("cart list: products: %w", err)
	}
	byID := collection.KeyBy(products, func(p models.Product) primitive.ObjectID { return p.ID })

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		line := CartLine{CartItem: item}
		if p, ok := byID[item.ProductID]; ok {
			line.ProductName = p.Name
			line.ProductType = p.Type
			line.LivePrice = p.Price
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// SetQuantity updates one row's quantity. The new total is recomputed from
// the row's snapshotted unit price in the same write. Concurrent updates are
// last-write-wins.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, ErrQuantityTooLow
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return models.CartItem{}, err
	}

	total := float64(quantity) * item.UnitPrice
	if err := s.cart.SetQuantity(ctx, itemID, quantity, total); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartItem{}, ErrNotFound
		}
		return models.CartItem{}, fmt.Errorf("cart set quantity: %w", err)
	}

	item.Quantity = quantity
	item.TotalPrice = total
	return item, nil
}

// Remove deletes one of the user's cart rows.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.cart.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("cart remove: %w", err)
	}
	return nil
}

// ownedItem loads a cart row and verifies it belongs to userID.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (models.CartItem, error) {
	item, err := s.cart.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.CartItem{}, ErrNotFound
		}
		return models.CartItem{}, fmt.Errorf("cart: find item: %w", err)
	}
	if item.UserID.Hex() != userID {
		return models.CartItem{}, ErrForbidden
	}
	return item, nil
}
