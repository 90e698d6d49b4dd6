package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/scope"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

const requesterLocal = "requester"

// RequesterLoader resolves the current role and active flag of a token subject.
type RequesterLoader interface {
	Requester(ctx context.Context, userID uint) (scope.Requester, error)
}

// Authenticate validates the bearer token and loads the requester it names. Role and active
// state come from the user record rather than the token, so deactivated accounts are refused
// even with an unexpired token. Lookup failures other than a missing user are logged and
// answered with 500.
func Authenticate(secret string, loader RequesterLoader, logger zerolog.Logger) fiber.Handler {
	logger = logger.With().Str("component", "authenticate").Logger()

	return func(c *fiber.Ctx) error {
		userID, err := bearerSubject(c.Get(fiber.HeaderAuthorization), secret)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		requester, err := loader.Requester(c.UserContext(), userID)
		if errors.Is(err, service.ErrNotFound) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}
		if err != nil {
			logger.Error().Err(err).Uint("user_id", userID).Str("correlation_id", GetCorrelationID(c)).Msg("failed to load requester")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
		if !requester.Active {
			return utils.SendError(c, fiber.StatusUnauthorized, "user account is disabled")
		}

		c.Locals("user_id", requester.ID)
		c.Locals("user_role", string(requester.Role))
		c.Locals(requesterLocal, requester)
		return c.Next()
	}
}

// RequesterFrom returns the requester stored by Authenticate.
func RequesterFrom(c *fiber.Ctx) (scope.Requester, bool) {
	requester, ok := c.Locals(requesterLocal).(scope.Requester)
	return requester, ok
}

func bearerSubject(authorization, secret string) (uint, error) {
	if authorization == "" {
		return 0, errors.New("authorization header missing")
	}

	const bearer = "bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), bearer) {
		return 0, errors.New("invalid authorization header")
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return 0, errors.New("invalid token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return 0, errors.New("invalid token claims")
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid token claims")
	}
	return uint(id), nil
}
