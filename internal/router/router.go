package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/teamboard-api/internal/config"
	"github.com/noah-isme/teamboard-api/internal/handler"
	"github.com/noah-isme/teamboard-api/internal/middleware"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	DashboardHandler    *handler.DashboardHandler
	ActivityFeedHandler *handler.ActivityFeedHandler
	ActivityLogHandler  *handler.ActivityLogHandler
	Authenticate        fiber.Handler
	LoginLimiter        fiber.Handler
	HealthChecks        map[string]handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	health := handler.HealthCheck(cfg, deps.HealthChecks)
	app.Get("/health", health)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", health)

	authenticate := deps.Authenticate
	if authenticate == nil {
		// Without an authenticator every protected route answers 401.
		authenticate = func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication unavailable")
		}
	}

	if deps.AuthHandler != nil {
		var guards []fiber.Handler
		if deps.LoginLimiter != nil {
			guards = append(guards, deps.LoginLimiter)
		}
		deps.AuthHandler.Register(api.Group("/auth"), authenticate, guards...)
	}

	// Supermanager
	super := api.Group("/supermanager", authenticate, middleware.RequireRole(models.RoleSupermanager))
	if deps.UserHandler != nil {
		deps.UserHandler.Register(super.Group("/users"))
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.Register(super.Group("/projects"))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(super.Group("/tasks"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(super, models.RoleSupermanager)
	}

	// Manager
	manager := api.Group("/manager", authenticate, middleware.RequireRole(models.RoleManager))
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterProgress(manager.Group("/projects"))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(manager.Group("/tasks"))
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterDirectory(manager.Group("/employees"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(manager, models.RoleManager)
	}

	// Employee
	employee := api.Group("/employee", authenticate, middleware.RequireRole(models.RoleEmployee))
	if deps.TaskHandler != nil {
		deps.TaskHandler.RegisterOwn(employee.Group("/tasks"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(employee, models.RoleEmployee)
	}

	// Shared across roles
	anyUser := guard(middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true})
	if deps.ActivityFeedHandler != nil {
		deps.ActivityFeedHandler.Register(api.Group("/recent-activity", authenticate, anyUser))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterReports(api.Group("/reports", authenticate, anyUser))
	}
	if deps.ActivityLogHandler != nil {
		deps.ActivityLogHandler.Register(api.Group("/activities", authenticate, guard(middleware.AuthOptions{Role: models.RoleSupermanager})))
	}
}

// guard turns WithAuth into group middleware.
func guard(opts middleware.AuthOptions) fiber.Handler {
	return middleware.WithAuth(func(c *fiber.Ctx) error { return c.Next() }, opts)
}
