package controllers

import (
	"net/http"

	"github.com/ndthang/techmart/app/resources"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/response"
	"github.com/ndthang/techmart/pkg/router"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index lists products. ?type= filters by exact type; ?q= searches the name
// case-insensitively. When both are present, type wins.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("type")
	search := r.URL.Query().Get("q")
	if productType != "" {
		search = ""
	}

	products, err := c.catalog.List(r.Context(), productType, search)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.ProductList(products))
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.Get(r.Context(), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Product(product))
}

// Image serves the product's inline image as raw bytes.
func (c *ProductController) Image(w http.ResponseWriter, r *http.Request) {
	raw, err := c.catalog.Image(r.Context(), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(raw))
	w.WriteHeader(http.StatusOK)
	w.Write(raw) //nolint:errcheck
}
