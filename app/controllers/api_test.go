package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/controllers"
	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/app/routes"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/auth"
	"github.com/ndthang/techmart/pkg/router"
	"github.com/ndthang/techmart/pkg/workerpool"
	"github.com/ndthang/techmart/pkg/ws"
)

// memStore is an in-memory stand-in for every repository, so the full HTTP
// stack (router, auth middleware, controllers, services) runs in-process.
type memStore struct {
	mu       sync.Mutex
	users    []models.User
	products []models.Product
	cart     []models.CartItem
	orders   []models.Order
	details  []models.OrderDetail
}

// --- users ---

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (m *memStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) Update(_ context.Context, id string, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
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
		m.users[i] = u
		return nil
	}
	return repositories.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID.Hex() == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memStore) All(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *memStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

// productStore wraps memStore because FindByID/FindByIDs/All/Create/Update/
// Delete collide with the user methods above.
type productStore struct{ m *memStore }

func (p productStore) All(_ context.Context) ([]models.Product, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	return append([]models.Product(nil), p.m.products...), nil
}

func (p productStore) ByType(_ context.Context, productType string) ([]models.Product, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []models.Product
	for _, prod := range p.m.products {
		if prod.Type == productType {
			out = append(out, prod)
		}
	}
	return out, nil
}

func (p productStore) Search(_ context.Context, term string) ([]models.Product, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []models.Product
	for _, prod := range p.m.products {
		if strings.Contains(strings.ToLower(prod.Name), strings.ToLower(term)) {
			out = append(out, prod)
		}
	}
	return out, nil
}

func (p productStore) FindByID(_ context.Context, id string) (models.Product, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for _, prod := range p.m.products {
		if prod.ID.Hex() == id {
			return prod, nil
		}
	}
	return models.Product{}, repositories.ErrNotFound
}

func (p productStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []models.Product
	for _, prod := range p.m.products {
		for _, id := range ids {
			if prod.ID == id {
				out = append(out, prod)
				break
			}
		}
	}
	return out, nil
}

func (p productStore) Create(_ context.Context, prod *models.Product) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	prod.ID = primitive.NewObjectID()
	p.m.products = append(p.m.products, *prod)
	return nil
}

func (p productStore) Update(_ context.Context, id string, fields bson.M) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for i, prod := range p.m.products {
		if prod.ID.Hex() != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			prod.Name = v
		}
		if v, ok := fields["type"].(string); ok {
			prod.Type = v
		}
		if v, ok := fields["price"].(float64); ok {
			prod.Price = v
		}
		if v, ok := fields["description"].(string); ok {
			prod.Description = v
		}
		if v, ok := fields["image_base64"].(string); ok {
			prod.ImageBase64 = v
		}
		p.m.products[i] = prod
		return nil
	}
	return repositories.ErrNotFound
}

func (p productStore) Delete(_ context.Context, id string) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	for i, prod := range p.m.products {
		if prod.ID.Hex() == id {
			p.m.products = append(p.m.products[:i], p.m.products[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type cartStore struct{ m *memStore }

func (c cartStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	var out []models.CartItem
	for _, i := range c.m.cart {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (c cartStore) FindByID(_ context.Context, id string) (models.CartItem, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for _, i := range c.m.cart {
		if i.ID.Hex() == id {
			return i, nil
		}
	}
	return models.CartItem{}, repositories.ErrNotFound
}

func (c cartStore) Add(_ context.Context, item *models.CartItem) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	c.m.cart = append(c.m.cart, *item)
	return nil
}

func (c cartStore) SetQuantity(_ context.Context, id string, quantity int, totalPrice float64) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for i := range c.m.cart {
		if c.m.cart[i].ID.Hex() == id {
			c.m.cart[i].Quantity = quantity
			c.m.cart[i].TotalPrice = totalPrice
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (c cartStore) Delete(_ context.Context, id string) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for i, item := range c.m.cart {
		if item.ID.Hex() == id {
			c.m.cart = append(c.m.cart[:i], c.m.cart[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type orderStore struct{ m *memStore }

func (o orderStore) Place(_ context.Context, order *models.Order, details []models.OrderDetail) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	o.m.orders = append(o.m.orders, *order)
	o.m.details = append(o.m.details, details...)
	kept := o.m.cart[:0]
	for _, i := range o.m.cart {
		if i.UserID != order.UserID {
			kept = append(kept, i)
		}
	}
	o.m.cart = kept
	return nil
}

func (o orderStore) FindByIdempotencyKey(_ context.Context, key string) (models.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	for _, ord := range o.m.orders {
		if ord.IdempotencyKey != "" && ord.IdempotencyKey == key {
			return ord, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (o orderStore) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	var out []models.Order
	for _, ord := range o.m.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (o orderStore) All(_ context.Context) ([]models.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	return append([]models.Order(nil), o.m.orders...), nil
}

func (o orderStore) FindByCode(_ context.Context, code string) (models.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	for _, ord := range o.m.orders {
		if ord.OrderCode == code {
			return ord, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (o orderStore) DetailsByCode(_ context.Context, code string) ([]models.OrderDetail, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	var out []models.OrderDetail
	for _, d := range o.m.details {
		if d.OrderCode == code {
			out = append(out, d)
		}
	}
	return out, nil
}

func (o orderStore) UpdateStatus(_ context.Context, id string, status int) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	for i := range o.m.orders {
		if o.m.orders[i].ID.Hex() == id {
			o.m.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (o orderStore) Delete(_ context.Context, id string) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	for i, ord := range o.m.orders {
		if ord.ID.Hex() == id {
			o.m.orders = append(o.m.orders[:i], o.m.orders[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (o orderStore) ByStatusInRange(_ context.Context, status int, from, to time.Time) ([]models.Order, error) {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	var out []models.Order
	for _, ord := range o.m.orders {
		if ord.Status != status || ord.CreatedAt.Before(from) || ord.CreatedAt.After(to) {
			continue
		}
		out = append(out, ord)
	}
	return out, nil
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newAPI(t *testing.T) (http.Handler, *memStore) {
	t.Helper()
	store := &memStore{}
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	products := productStore{store}
	cart := cartStore{store}
	orders := orderStore{store}

	catalogSvc := services.NewCatalogService(products)
	orderSvc := services.NewOrderService(orders, products, store, pool)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(services.NewAuthService(store)),
		Products: controllers.NewProductController(catalogSvc),
		Cart:     controllers.NewCartController(services.NewCartService(cart, products)),
		Orders:   controllers.NewOrderController(services.NewCheckoutService(orders, cart, store), orderSvc),
		Admin: controllers.NewAdminController(
			catalogSvc,
			services.NewUserAdminService(store),
			orderSvc,
			services.NewRevenueService(orders),
		),
		Hub: ws.NewHub(),
	})
	return r.Handler(), store
}

func seedUser(t *testing.T, store *memStore, role string) (models.User, string) {
	t.Helper()
	user := models.User{Email: role + "@example.com", Role: role}
	require.NoError(t, store.Create(context.Background(), &user))

	token, err := auth.GenerateToken(user.ID.Hex(), role)
	require.NoError(t, err)
	return user, token
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestCatalogEndpointFilters(t *testing.T) {
	h, store := newAPI(t)
	store.products = []models.Product{
		{ID: primitive.NewObjectID(), Name: "Aurora X1", Type: "phone", Price: 699},
		{ID: primitive.NewObjectID(), Name: "Pulse Buds", Type: "accessory", Price: 129},
	}

	rec, env := do(t, h, http.MethodGet, "/api/products?type=phone", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Aurora X1", list[0]["name"])

	rec, env = do(t, h, http.MethodGet, "/api/products?q=pUlSe", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Pulse Buds", list[0]["name"])

	// Both filters: type wins, q is ignored.
	rec, env = do(t, h, http.MethodGet, "/api/products?type=accessory&q=Aurora", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Pulse Buds", list[0]["name"])
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newAPI(t)

	rec, env := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
	assert.Contains(t, env.Errors, "address")
	assert.Contains(t, env.Errors, "phone")
}

func TestAuthRequired(t *testing.T) {
	h, _ := newAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartCheckoutFlow(t *testing.T) {
	h, store := newAPI(t)
	product := models.Product{ID: primitive.NewObjectID(), Name: "Aurora X1", Type: "phone", Price: 699}
	store.products = []models.Product{product}
	_, token := seedUser(t, store, models.RoleCustomer)

	rec, _ := do(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Quantity zero is rejected before any write.
	rec, _ = do(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID.Hex(),
		"quantity":   0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var placed map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, 1398.0, placed["totals_price"])

	// The same key replays the same order instead of writing a second one.
	req = httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var replayed map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &replayed))
	assert.Equal(t, placed["order_code"], replayed["order_code"])
	assert.Len(t, store.orders, 1)

	rec, _ = do(t, h, http.MethodGet, "/api/orders", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h, store := newAPI(t)
	_, token := seedUser(t, store, models.RoleCustomer)

	rec, _ := do(t, h, http.MethodPost, "/api/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminGateByRole(t *testing.T) {
	h, store := newAPI(t)
	_, customerToken := seedUser(t, store, models.RoleCustomer)
	_, adminToken := seedUser(t, store, models.RoleAdmin)

	rec, _ := do(t, h, http.MethodGet, "/api/admin/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRevenueEndpoint(t *testing.T) {
	h, store := newAPI(t)
	_, adminToken := seedUser(t, store, models.RoleAdmin)
	store.orders = []models.Order{
		{ID: primitive.NewObjectID(), OrderCode: "a", Status: models.StatusProcessed, TotalsPrice: 100,
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: primitive.NewObjectID(), OrderCode: "b", Status: models.StatusProcessing, TotalsPrice: 300,
			CreatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)},
	}

	rec, env := do(t, h, http.MethodGet, "/api/admin/revenue?from=2026-03-01&to=2026-03-01", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1.0, report["order_count"])
	assert.Equal(t, 100.0, report["total"])

	rec, _ = do(t, h, http.MethodGet, "/api/admin/revenue?from=bad&to=2026-03-01", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
