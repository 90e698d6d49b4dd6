package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

func withRequester(requester scope.Requester) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(requesterLocal, requester)
		return c.Next()
	}
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	app := fiber.New()
	app.Use(withRequester(scope.Requester{ID: 1, Role: models.RoleManager, Active: true}))
	app.Use(RequireRole(models.RoleSupermanager, models.RoleManager))
	app.Get("/manager", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/manager", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	app := fiber.New()
	app.Use(withRequester(scope.Requester{ID: 3, Role: models.RoleEmployee, Active: true}))
	app.Use(RequireRole(models.RoleSupermanager))
	app.Get("/supermanager", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/supermanager", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleWithoutRequester(t *testing.T) {
	app := fiber.New()
	app.Use(RequireRole(models.RoleEmployee))
	app.Get("/employee", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/employee", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
