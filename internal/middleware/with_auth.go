package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// AuthRoleAny admits every authenticated role.
const AuthRoleAny models.Role = "any"

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        models.Role
	RequireUser bool
}

// WithAuth wraps a single handler with an authentication and role guard, for routes that sit
// outside a role group.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := opts.Role
	if role == "" {
		role = AuthRoleAny
	}
	requireUser := opts.RequireUser || role != AuthRoleAny

	return func(c *fiber.Ctx) error {
		requester, ok := RequesterFrom(c)
		if !ok {
			if requireUser {
				return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
			}
			return handler(c)
		}

		if role != AuthRoleAny && requester.Role != role {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}
		return handler(c)
	}
}
