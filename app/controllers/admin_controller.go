package controllers

import (
	"net/http"
	"time"

	"github.com/ndthang/techmart/app/resources"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/bind"
	"github.com/ndthang/techmart/pkg/response"
	"github.com/ndthang/techmart/pkg/router"
)

// AdminController groups the management endpoints: product CRUD, user
// administration, order oversight and revenue reporting.
type AdminController struct {
	catalog *services.CatalogService
	users   *services.UserAdminService
	orders  *services.OrderService
	revenue *services.RevenueService
}

func NewAdminController(catalog *services.CatalogService, users *services.UserAdminService, orders *services.OrderService, revenue *services.RevenueService) *AdminController {
	return &AdminController{catalog: catalog, users: users, orders: orders, revenue: revenue}
}

// --- products ---

func (c *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resources.Product(product))
}

func (c *AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Update(r.Context(), router.Param(r, "id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Product(product))
}

func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(r.Context(), router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Map{"deleted": true})
}

// --- users ---

func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.All(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.UserList(users))
}

func (c *AdminController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in services.UserUpdateInput
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.users.Update(r.Context(), router.Param(r, "id"), in); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Map{"updated": true})
}

func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := c.users.Remove(r.Context(), router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Map{"deleted": true})
}

// --- orders ---

func (c *AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.AllForAdmin(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status int `json:"status" validate:"required,integer"`
	}
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.orders.SetStatus(r.Context(), router.Param(r, "id"), in.Status); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Map{"updated": true})
}

func (c *AdminController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Remove(r.Context(), router.Param(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resources.Map{"deleted": true})
}

// --- revenue ---

// Revenue reports order count and total over [from, to]. Dates arrive as
// YYYY-MM-DD query params; the "to" day is included up to its last second.
func (c *AdminController) Revenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := revenueRange(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := c.revenue.Range(r.Context(), from, to)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, report)
}

func (c *AdminController) ExportRevenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := revenueRange(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	path, url, err := c.revenue.ExportCSV(r.Context(), from, to)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, resources.Map{"path": path, "url": url})
}

func revenueRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.Add(24*time.Hour - time.Second), nil
}
