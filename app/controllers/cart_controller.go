package controllers

import (
	"net/http"

	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/bind"
	"github.com/ndthang/techmart/pkg/middleware"
	"github.com/ndthang/techmart/pkg/response"
	"github.com/ndthang/techmart/pkg/router"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in services.AddInput
	if errs, err := bind.JSON(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.cart.Add(r.Context(), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, item)
}

func (c *CartController) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	lines, err := c.cart.List(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, lines)
}

func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	var in struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if errs, err := bind.JSON(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.cart.SetQuantity(r.Context(), userID, router.Param(r, "id"), in.Quantity)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, item)
}

func (c *CartController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)

	if err := c.cart.Remove(r.Context(), userID, router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"status": "deleted"})
}
