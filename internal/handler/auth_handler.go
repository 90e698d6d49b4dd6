package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// AuthHandler exposes login, self-registration and the current-user endpoint.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes. loginGuards run before the login handler only; authenticate
// protects /me.
func (h *AuthHandler) Register(router fiber.Router, authenticate fiber.Handler, loginGuards ...fiber.Handler) {
	login := append(append([]fiber.Handler{}, loginGuards...), h.login)
	router.Post("/login", login...)
	router.Post("/register", h.register)
	router.Get("/me", authenticate, h.me)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	result, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "login")
	}
	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	user, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "register")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "me")
	}
	return utils.SendSuccess(c, "current user", user)
}
