package controllers

import (
	"net/http"

	"github.com/ndthang/techmart/app/resources"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/middleware"
	"github.com/ndthang/techmart/pkg/response"
	"github.com/ndthang/techmart/pkg/router"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

// Checkout places an order from the user's cart. An optional Idempotency-Key
// header makes retried submits return the first order instead of writing a
// duplicate.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)
	key := r.Header.Get("Idempotency-Key")

	order, err := c.checkout.Checkout(r.Context(), userID, key)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resources.Order(order))
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	orders, err := c.orders.ForUser(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) Details(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)

	details, err := c.orders.Details(r.Context(), userID, role, router.Param(r, "code"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, details)
}
