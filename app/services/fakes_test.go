package services_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
)

// In-memory stores mirroring the Mongo repositories' semantics, so the
// services can be exercised without a database.

type fakeProductStore struct {
	mu       sync.Mutex
	products []models.Product
}

func (f *fakeProductStore) add(p models.Product) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products = append(f.products, p)
	return p
}

func (f *fakeProductStore) All(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeProductStore) ByType(_ context.Context, productType string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.Type == productType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) Search(_ context.Context, term string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) FindByID(_ context.Context, id string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return models.Product{}, repositories.ErrNotFound
}

func (f *fakeProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID.Hex() != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			p.Name = v
		}
		if v, ok := fields["type"].(string); ok {
			p.Type = v
		}
		if v, ok := fields["price"].(float64); ok {
			p.Price = v
		}
		if v, ok := fields["description"].(string); ok {
			p.Description = v
		}
		if v, ok := fields["image_base64"].(string); ok {
			p.ImageBase64 = v
		}
		f.products[i] = p
		return nil
	}
	return repositories.ErrNotFound
}

func (f *fakeProductStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID.Hex() == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeProductStore) setPrice(id primitive.ObjectID, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Price = price
		}
	}
}

type fakeCartStore struct {
	mu    sync.Mutex
	items []models.CartItem
}

func (f *fakeCartStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CartItem
	for _, i := range f.items {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeCartStore) FindByID(_ context.Context, id string) (models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.items {
		if i.ID.Hex() == id {
			return i, nil
		}
	}
	return models.CartItem{}, repositories.ErrNotFound
}

func (f *fakeCartStore) Add(_ context.Context, item *models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeCartStore) SetQuantity(_ context.Context, id string, quantity int, totalPrice float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			f.items[i].Quantity = quantity
			f.items[i].TotalPrice = totalPrice
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCartStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID.Hex() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCartStore) clearUser(userID primitive.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, i := range f.items {
		if i.UserID != userID {
			kept = append(kept, i)
		}
	}
	f.items = kept
}

type fakeUserStore struct {
	mu    sync.Mutex
	users []models.User
}

func (f *fakeUserStore) add(u models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID.Hex() != id {
			continue
		}
		if v, ok := fields["email"].(string); ok {
			u.Email = v
		}
		if v, ok := fields["address"].(string); ok {
			u.Address = v
		}
		if v, ok := fields["phone"].(string); ok {
			u.Phone = v
		}
		if v, ok := fields["role"].(string); ok {
			u.Role = v
		}
		f.users[i] = u
		return nil
	}
	return repositories.ErrNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID.Hex() == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeUserStore) All(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...), nil
}

// fakeOrderStore mimics the transactional Place: the order insert, the
// detail inserts and the cart wipe happen atomically under one lock.
type fakeOrderStore struct {
	mu      sync.Mutex
	orders  []models.Order
	details []models.OrderDetail
	cart    *fakeCartStore
}

func (f *fakeOrderStore) Place(_ context.Context, order *models.Order, details []models.OrderDetail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	f.orders = append(f.orders, *order)
	f.details = append(f.details, details...)
	if f.cart != nil {
		f.cart.clearUser(order.UserID)
	}
	return nil
}

func (f *fakeOrderStore) FindByIdempotencyKey(_ context.Context, key string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.IdempotencyKey != "" && o.IdempotencyKey == key {
			return o, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (f *fakeOrderStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) All(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeOrderStore) FindByCode(_ context.Context, code string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderCode == code {
			return o, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (f *fakeOrderStore) DetailsByCode(_ context.Context, code string) ([]models.OrderDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderDetail
	for _, d := range f.details {
		if d.OrderCode == code {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID.Hex() == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeOrderStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID.Hex() == id {
			kept := f.details[:0]
			for _, d := range f.details {
				if d.OrderCode != o.OrderCode {
					kept = append(kept, d)
				}
			}
			f.details = kept
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeOrderStore) ByStatusInRange(_ context.Context, status int, from, to time.Time) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.Status != status {
			continue
		}
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
