package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// UserHandler manages accounts. Supermanagers get the full surface; managers only list
// employees.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches user management endpoints to the router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.deactivate)
}

// RegisterDirectory attaches the read-only listing used by managers.
func (h *UserHandler) RegisterDirectory(router fiber.Router) {
	router.Get("", h.list)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	params, err := parseScopeParams(c)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list users")
	}

	users, err := h.service.List(c.UserContext(), requesterFromContext(c), params)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list users")
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.service.Get(c.UserContext(), requesterFromContext(c), id)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "get user")
	}
	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.Create(c.UserContext(), requesterFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "create user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.Update(c.UserContext(), requesterFromContext(c), id, payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "update user")
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *UserHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Deactivate(c.UserContext(), requesterFromContext(c), id); err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "deactivate user")
	}
	return utils.SendSuccess(c, "user deactivated", fiber.Map{"id": id, "is_active": false})
}
