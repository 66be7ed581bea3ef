// Package resources shapes models into the JSON the API returns. List
// endpoints use the summary shapes to keep inline base64 images out of
// large payloads.
package resources

import (
	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/collection"
)

// Map is the output shape of every resource.
type Map = map[string]interface{}

// Product returns the full product shape, inline image included.
func Product(p models.Product) Map {
	m := ProductSummary(p)
	m["image_base64"] = p.ImageBase64
	return m
}

// ProductSummary omits the base64 image; the image endpoint serves bytes.
func ProductSummary(p models.Product) Map {
	return Map{
		"id":          p.ID.Hex(),
		"name":        p.Name,
		"type":        p.Type,
		"price":       p.Price,
		"description": p.Description,
		"image_url":   "/api/products/" + p.ID.Hex() + "/image",
	}
}

// ProductList maps a slice of products to summaries.
func ProductList(products []models.Product) []Map {
	return collection.Map(products, ProductSummary)
}

// User returns the user shape; the password hash never leaves the model.
func User(u models.User) Map {
	return Map{
		"id":         u.ID.Hex(),
		"email":      u.Email,
		"address":    u.Address,
		"phone":      u.Phone,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
}

// UserList maps a slice of users.
func UserList(users []models.User) []Map {
	return collection.Map(users, User)
}

// Order returns the order shape with its status label resolved.
func Order(o models.Order) Map {
	return Map{
		"id":           o.ID.Hex(),
		"order_code":   o.OrderCode,
		"status":       o.Status,
		"status_label": models.StatusLabel(o.Status),
		"totals_price": o.TotalsPrice,
		"created_at":   o.CreatedAt,
	}
}
