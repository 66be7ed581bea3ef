package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/pkg/cache"
	"github.com/ndthang/techmart/pkg/event"
	"github.com/ndthang/techmart/pkg/metrics"
)

const catalogCacheTTL = 2 * time.Minute

// ProductStore is what the catalog needs from the products collection.
type ProductStore interface {
	All(ctx context.Context) ([]models.Product, error)
	ByType(ctx context.Context, productType string) ([]models.Product, error)
	Search(ctx context.Context, term string) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// CatalogService serves product browsing, with a short-TTL Redis cache for
// the list endpoints, and the admin product write operations.
type CatalogService struct {
	products ProductStore
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

// List applies at most one filter mode. When both are supplied, type wins.
// The type filter is an exact, case-sensitive equality match; the search is a
// case-insensitive substring match on the name.
func (s *CatalogService) List(ctx context.Context, productType, search string) ([]models.Product, error) {
	key := listCacheKey(productType, search)

	var cached []models.Product
	if cache.Get(key, &cached) {
		metrics.CacheHits.WithLabelValues("catalog").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("catalog").Inc()

	var (
		products []models.Product
		err      error
	)
	switch {
	case productType != "":
		products, err = s.products.ByType(ctx, productType)
	case search != "":
		products, err = s.products.Search(ctx, search)
	default:
		products, err = s.products.All(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}
	_ = cache.Set(key, products, catalogCacheTTL)
	return products, nil
}

// Get returns one product with all fields, the inline image included.
func (s *CatalogService) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, fmt.Errorf("catalog get: %w", err)
	}
	return p, nil
}

// Image decodes a product's inline base64 image and returns the raw bytes.
func (s *CatalogService) Image(ctx context.Context, id string) ([]byte, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ImageBase64 == "" {
		return nil, ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(p.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("catalog image: decode: %w", err)
	}
	return raw, nil
}

// ProductInput carries the admin create/update payload. The original admin
// form required every field, so create does too.
type ProductInput struct {
	Name        string  `json:"name"         validate:"required"`
	Type        string  `json:"type"         validate:"required"`
	Price       float64 `json:"price"        validate:"required,gte=0"`
	Description string  `json:"description"  validate:"required"`
	ImageBase64 string  `json:"image_base64" validate:"required"`
}

// Create adds a product (admin) and invalidates the list caches.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p := models.Product{
		Name:        in.Name,
		Type:        in.Type,
		Price:       in.Price,
		Description: in.Description,
		ImageBase64: in.ImageBase64,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("catalog create: %w", err)
	}

	s.invalidate()
	event.FireAsync(event.ProductChanged, p)
	return p, nil
}

// Update overwrites a product's fields (admin) and invalidates the caches.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	fields := bson.M{
		"name":         in.Name,
		"type":         in.Type,
		"price":        in.Price,
		"description":  in.Description,
		"image_base64": in.ImageBase64,
	}
	if err := s.products.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, fmt.Errorf("catalog update: %w", err)
	}

	s.invalidate()
	p, err := s.Get(ctx, id)
	if err == nil {
		event.FireAsync(event.ProductChanged, p)
	}
	return p, err
}

// Delete removes a product (admin) and invalidates the caches.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("catalog delete: %w", err)
	}
	s.invalidate()
	return nil
}

// invalidate drops the unfiltered list key eagerly; parameterised keys
// expire on their own within the short TTL.
func (s *CatalogService) invalidate() {
	_ = cache.Del(listCacheKey("", ""))
}

func listCacheKey(productType, search string) string {
	switch {
	case productType != "":
		return "techmart:catalog:type:" + productType
	case search != "":
		return "techmart:catalog:q:" + search
	default:
		return "techmart:catalog:all"
	}
}
