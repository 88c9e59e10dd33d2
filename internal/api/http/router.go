package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Users             *handlers.UsersHandler
	Restaurants       *handlers.RestaurantsHandler
	Orders            *handlers.OrdersHandler
	Payments          *handlers.PaymentsHandler
	ContextMiddleware *auth.ContextMiddleware
}

// RoleTable is the declared role requirement per operation. Operations not
// listed here are public.
func RoleTable() map[string]auth.Requirement {
	return map[string]auth.Requirement{
		"me":               auth.RequireAny(),
		"userProfile":      auth.RequireAny(),
		"editProfile":      auth.RequireAny(),
		"createRestaurant": auth.Require(domain.RoleOwner),
		"editRestaurant":   auth.Require(domain.RoleOwner),
		"deleteRestaurant": auth.Require(domain.RoleOwner),
		"myRestaurants":    auth.Require(domain.RoleOwner),
		"myRestaurant":     auth.Require(domain.RoleOwner),
		"createDish":       auth.Require(domain.RoleOwner),
		"editDish":         auth.Require(domain.RoleOwner),
		"deleteDish":       auth.Require(domain.RoleOwner),
		"createOrder":      auth.Require(domain.RoleClient),
		"getOrders":        auth.RequireAny(),
		"createPayment":    auth.Require(domain.RoleOwner),
		"getPayments":      auth.Require(domain.RoleOwner),
	}
}

// RegisterRoutes wires HTTP routes. The context middleware resolves the
// caller once per request; the gate is consulted per operation before the
// handler runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	gate := auth.NewGate(RoleTable())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.ContextMiddleware.Handle)

	api.Post("/users", cfg.Users.CreateAccount)
	api.Post("/users/login", cfg.Users.Login)
	api.Post("/users/verify-email", cfg.Users.VerifyEmail)
	api.Get("/users/me", gate.Check("me"), cfg.Users.Me)
	api.Put("/users/me", gate.Check("editProfile"), cfg.Users.EditProfile)
	api.Get("/users/:id", gate.Check("userProfile"), cfg.Users.Profile)

	api.Get("/restaurants", cfg.Restaurants.List)
	api.Get("/restaurants/search", cfg.Restaurants.Search)
	api.Post("/restaurants", gate.Check("createRestaurant"), cfg.Restaurants.Create)
	api.Get("/restaurants/:id", cfg.Restaurants.Get)
	api.Put("/restaurants/:id", gate.Check("editRestaurant"), cfg.Restaurants.Edit)
	api.Delete("/restaurants/:id", gate.Check("deleteRestaurant"), cfg.Restaurants.Delete)

	api.Get("/owner/restaurants", gate.Check("myRestaurants"), cfg.Restaurants.Mine)
	api.Get("/owner/restaurants/:id", gate.Check("myRestaurant"), cfg.Restaurants.MyRestaurant)

	api.Get("/categories", cfg.Restaurants.Categories)
	api.Get("/categories/:slug", cfg.Restaurants.Category)

	api.Post("/dishes", gate.Check("createDish"), cfg.Restaurants.CreateDish)
	api.Put("/dishes/:id", gate.Check("editDish"), cfg.Restaurants.EditDish)
	api.Delete("/dishes/:id", gate.Check("deleteDish"), cfg.Restaurants.DeleteDish)

	api.Post("/orders", gate.Check("createOrder"), cfg.Orders.Create)
	api.Get("/orders", gate.Check("getOrders"), cfg.Orders.List)

	api.Post("/payments", gate.Check("createPayment"), cfg.Payments.Create)
	api.Get("/payments", gate.Check("getPayments"), cfg.Payments.List)
}
