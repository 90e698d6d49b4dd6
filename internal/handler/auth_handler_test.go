package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teamboard-api/internal/config"
	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/handler"
	"github.com/noah-isme/teamboard-api/internal/middleware"
	"github.com/noah-isme/teamboard-api/internal/models"
)

func authApp(h *harness) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(h.auth, zerolog.Nop()).Register(app.Group("/api/v1/auth"), middleware.Authenticate("handler-secret", h.auth, zerolog.Nop()))
	return app
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	h := newHarness(t)
	app := authApp(h)

	resp, env := do(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "mara", "password": testPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodeData(t, env, &login)
	require.NotEmpty(t, login.Access)
	require.Equal(t, models.RoleManager, login.User.Role)

	req := newRequest(t, http.MethodGet, "/api/v1/auth/me")
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.Access)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, raw.StatusCode)

	var me envelope
	decodeResponse(t, raw, &me)
	var user dto.UserResponse
	decodeData(t, me, &user)
	require.Equal(t, "mara", user.Username)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	h := newHarness(t)
	app := authApp(h)

	resp, env := do(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "mara", "password": "wrong-pass"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", env.Message)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "gone", "password": testPassword})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env = do(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "mara"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Contains(t, env.Details, "password")
}

func TestAuthHandler_RegisterCreatesEmployee(t *testing.T) {
	h := newHarness(t)
	app := authApp(h)

	resp, env := do(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":        "nova",
		"email":           "nova@example.com",
		"password":        "long-enough-1",
		"confirmPassword": "long-enough-1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var user dto.UserResponse
	decodeData(t, env, &user)
	require.Equal(t, models.RoleEmployee, user.Role)
	require.True(t, user.IsActive)

	resp, env = do(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":        "NOVA",
		"email":           "other@example.com",
		"password":        "long-enough-1",
		"confirmPassword": "long-enough-1",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Contains(t, env.Details, "username")
}

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{AppName: "Teamboard API", AppEnv: "test"}

	healthy := fiber.New()
	healthy.Get("/health", handler.HealthCheck(cfg, map[string]handler.Pinger{
		"database": handler.PingFunc(func(context.Context) error { return nil }),
	}))
	resp, env := do(t, healthy, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	degraded := fiber.New()
	degraded.Get("/health", handler.HealthCheck(cfg, map[string]handler.Pinger{
		"redis": handler.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}))
	resp, env = do(t, degraded, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	require.False(t, env.Success)

	var payload handler.HealthResponse
	decodeData(t, env, &payload)
	require.Equal(t, "down", payload.Checks["redis"])
}
