package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pqrssi-service/internal/api/http/handlers"
	"github.com/spec-kit/pqrssi-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Requests          *handlers.RequestsHandler
	Admin             *handlers.AdminHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. Every protected group passes through
// the session middleware and then a gate guard; gate failures respond
// before any lifecycle operation runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.SessionMiddleware.Handle, cfg.Auth.Logout)

	app.Get("/categories", cfg.SessionMiddleware.Handle, auth.LoginRequired(), cfg.Requests.Categories)

	requests := app.Group("/requests", cfg.SessionMiddleware.Handle, auth.LoginRequired())
	requests.Post("/", cfg.Requests.Create)
	requests.Get("/", cfg.Requests.List)
	requests.Get("/mine", cfg.Requests.ListMine)
	requests.Get("/:id/history", cfg.Requests.History)

	admin := app.Group("/admin", cfg.SessionMiddleware.Handle, auth.AdminRequired())
	admin.Get("/requests", cfg.Admin.List)
	admin.Post("/requests/:id/status", cfg.Admin.ChangeStatus)
	admin.Get("/statuses", cfg.Admin.Statuses)
}
