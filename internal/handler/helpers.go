package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/middleware"
	"github.com/noah-isme/teamboard-api/internal/scope"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// requesterFromContext returns the authenticated requester. Without one the zero value is
// returned, which every scope rule treats as "sees nothing".
func requesterFromContext(c *fiber.Ctx) scope.Requester {
	requester, _ := middleware.RequesterFrom(c)
	return requester
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// parseScopeParams reads the optional project and dashboard query parameters.
func parseScopeParams(c *fiber.Ctx) (scope.Params, error) {
	var params scope.Params

	if raw := strings.TrimSpace(c.Query("project")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return scope.Params{}, &service.ValidationError{Fields: map[string]string{"project": "A valid integer is required."}}
		}
		projectID := uint(id)
		params.ProjectID = &projectID
	}

	if raw := strings.TrimSpace(c.Query("dashboard")); raw != "" {
		dashboard, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return scope.Params{}, &service.ValidationError{Fields: map[string]string{"dashboard": "Must be a valid boolean."}}
		}
		params.Dashboard = dashboard
	}

	return params, nil
}

// parseLimit returns nil when the limit query parameter is absent so the default applies.
func parseLimit(c *fiber.Ctx) (*int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &service.ValidationError{Fields: map[string]string{"limit": "A valid integer is required."}}
	}
	return &limit, nil
}

// respondError maps service errors onto HTTP statuses. Unknown errors are logged and hidden
// behind a generic message.
func respondError(c *fiber.Ctx, logger *zerolog.Logger, err error, action string) error {
	if validation, ok := service.AsValidationError(err); ok {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validation.Fields)
	}

	switch {
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInactiveAccount):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInactiveAccount.Error())
	default:
		logger.Error().Err(err).Str("action", action).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func invalidPayload(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
}
