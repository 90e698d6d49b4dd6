package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// RequireRole ensures that the authenticated requester holds one of the allowed roles.
// It must run after Authenticate.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		if normalized := models.ParseRole(string(role)); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		requester, ok := RequesterFrom(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[requester.Role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
