package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role allow-lists mirror the resource
// access rules: clients file tickets, technicians and admins move them,
// admins manage users and categories.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequireRoles(domain.UserRoleClient), cfg.Tickets.CreateTicket)
	tickets.Get("", auth.RequireRoles(domain.UserRoleAdmin), cfg.Tickets.ListTickets)
	tickets.Get("/client/:id", auth.RequireRoles(domain.UserRoleAdmin, domain.UserRoleClient), cfg.Tickets.ListClientTickets)
	tickets.Get("/technician/:id", auth.RequireRoles(domain.UserRoleAdmin, domain.UserRoleTechnician), cfg.Tickets.ListTechnicianTickets)
	tickets.Get("/:id", auth.RequireRoles(domain.UserRoleAdmin, domain.UserRoleTechnician, domain.UserRoleClient), cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", auth.RequireRoles(domain.UserRoleAdmin, domain.UserRoleTechnician), cfg.Tickets.GetTicketHistory)
	tickets.Patch("/:id/status", auth.RequireRoles(domain.UserRoleAdmin, domain.UserRoleTechnician), cfg.Tickets.UpdateStatus)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRoles(domain.UserRoleAdmin))
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Post("", auth.RequireRoles(domain.UserRoleAdmin), cfg.Categories.CreateCategory)
	categories.Get("", auth.RequireRoles(), cfg.Categories.ListCategories)
	categories.Get("/:id", auth.RequireRoles(), cfg.Categories.GetCategory)
	categories.Delete("/:id", auth.RequireRoles(domain.UserRoleAdmin), cfg.Categories.DeleteCategory)
}
