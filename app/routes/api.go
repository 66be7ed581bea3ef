package routes

import (
	"net/http"

	"github.com/ndthang/techmart/app/controllers"
	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/metrics"
	"github.com/ndthang/techmart/pkg/middleware"
	"github.com/ndthang/techmart/pkg/rbac"
	"github.com/ndthang/techmart/pkg/router"
	"github.com/ndthang/techmart/pkg/ws"
)

// Deps carries the wired controllers and infra handlers into the route table.
type Deps struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Admin    *controllers.AdminController
	GraphQL  http.HandlerFunc
	Hub      *ws.Hub
}

func RegisterAPI(r *router.Router, d Deps) {
	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api")

	// Public: account creation, login and the storefront catalog.
	api.Post("/auth/register", "auth.register", d.Auth.Register)
	api.Post("/auth/login", "auth.login", d.Auth.Login)
	api.Get("/products", "products.index", d.Products.Index)
	api.Get("/products/{id}", "products.show", d.Products.Show)
	api.Get("/products/{id}/image", "products.image", d.Products.Image)
	if d.GraphQL != nil {
		api.Post("/graphql", "graphql", d.GraphQL)
	}

	protected := api.Group("", middleware.Auth)

	protected.Post("/auth/logout", "auth.logout", d.Auth.Logout)
	protected.Get("/profile", "auth.profile", d.Auth.Profile)
	protected.Put("/profile", "auth.profile.update", d.Auth.UpdateProfile)

	protected.Get("/cart", "cart.index", d.Cart.Index)
	protected.Post("/cart", "cart.add", d.Cart.Add)
	protected.Put("/cart/{id}", "cart.update", d.Cart.Update)
	protected.Delete("/cart/{id}", "cart.delete", d.Cart.Delete)

	protected.Post("/checkout", "checkout", d.Orders.Checkout)
	protected.Get("/orders", "orders.index", d.Orders.Index)
	protected.Get("/orders/{code}/details", "orders.details", d.Orders.Details)

	admin := protected.Group("/admin", rbac.HasRole(models.RoleAdmin))

	admin.Get("/products", "admin.products.index", d.Products.Index)
	admin.Post("/products", "admin.products.create", d.Admin.CreateProduct)
	admin.Put("/products/{id}", "admin.products.update", d.Admin.UpdateProduct)
	admin.Delete("/products/{id}", "admin.products.delete", d.Admin.DeleteProduct)

	admin.Get("/users", "admin.users.index", d.Admin.Users)
	admin.Put("/users/{id}", "admin.users.update", d.Admin.UpdateUser)
	admin.Delete("/users/{id}", "admin.users.delete", d.Admin.DeleteUser)

	admin.Get("/orders", "admin.orders.index", d.Admin.Orders)
	admin.Get("/orders/{code}/details", "admin.orders.details", d.Orders.Details)
	admin.Put("/orders/{id}/status", "admin.orders.status", d.Admin.UpdateOrderStatus)
	admin.Delete("/orders/{id}", "admin.orders.delete", d.Admin.DeleteOrder)

	admin.Get("/revenue", "admin.revenue", d.Admin.Revenue)
	admin.Post("/revenue/export", "admin.revenue.export", d.Admin.ExportRevenue)

	// Live order feed for the management dashboard.
	admin.Get("/ws/orders", "admin.ws.orders", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, d.Hub)
	})
}
