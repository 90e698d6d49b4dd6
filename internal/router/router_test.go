package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/teamboard-api/internal/config"
	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/handler"
	"github.com/noah-isme/teamboard-api/internal/middleware"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/router"
	"github.com/noah-isme/teamboard-api/internal/service"
)

const secret = "router-secret"

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.ConnectSQLite(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	for _, u := range []models.User{
		{Username: "root", Email: "root@example.com", Role: models.RoleSupermanager, IsActive: true, PasswordHash: string(hash)},
		{Username: "mara", Email: "mara@example.com", Role: models.RoleManager, IsActive: true, PasswordHash: string(hash)},
		{Username: "erin", Email: "erin@example.com", Role: models.RoleEmployee, IsActive: true, PasswordHash: string(hash)},
	} {
		user := u
		require.NoError(t, db.Create(&user).Error)
	}

	logger := zerolog.Nop()
	validate := service.NewValidator()
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), nil, "", logger)
	auth := service.NewAuthService(users, validate, activity, service.AuthConfig{Secret: secret, TTL: time.Hour}, logger)

	cfg := config.Config{AppName: "Teamboard API", AppEnv: "test"}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(auth, logger),
		UserHandler:         handler.NewUserHandler(service.NewUserService(users, validate, activity, logger), logger),
		ProjectHandler:      handler.NewProjectHandler(service.NewProjectService(projects, users, validate, activity, logger), logger),
		TaskHandler:         handler.NewTaskHandler(service.NewTaskService(tasks, projects, users, validate, activity, logger), logger),
		DashboardHandler:    handler.NewDashboardHandler(service.NewDashboardService(users, projects, tasks, nil, 0, logger), logger),
		ActivityFeedHandler: handler.NewActivityFeedHandler(service.NewActivityFeedService(tasks, projects, users, service.DefaultFeedOptions(), logger), logger),
		ActivityLogHandler:  handler.NewActivityLogHandler(activity, logger),
		Authenticate:        middleware.Authenticate(secret, auth, zerolog.Nop()),
		LoginLimiter:        middleware.RateLimit("login", 100, time.Minute),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Access string `json:"access"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.Access)
	return body.Data.Access
}

func TestRoleGroups(t *testing.T) {
	app := newApp(t)
	root := login(t, app, "root")
	mara := login(t, app, "mara")
	erin := login(t, app, "erin")

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"anonymous", "/api/v1/supermanager/users", "", fiber.StatusUnauthorized},
		{"supermanager users", "/api/v1/supermanager/users", root, fiber.StatusOK},
		{"manager on supermanager group", "/api/v1/supermanager/users", mara, fiber.StatusForbidden},
		{"employee on manager group", "/api/v1/manager/projects", erin, fiber.StatusForbidden},
		{"manager projects", "/api/v1/manager/projects", mara, fiber.StatusOK},
		{"manager employees", "/api/v1/manager/employees", mara, fiber.StatusOK},
		{"employee tasks", "/api/v1/employee/tasks", erin, fiber.StatusOK},
		{"employee dashboard", "/api/v1/employee/dashboard-stats", erin, fiber.StatusOK},
		{"manager dashboard", "/api/v1/manager/dashboard-stats", mara, fiber.StatusOK},
		{"supermanager dashboard", "/api/v1/supermanager/dashboard-stats", root, fiber.StatusOK},
		{"feed for employee", "/api/v1/recent-activity", erin, fiber.StatusOK},
		{"feed anonymous", "/api/v1/recent-activity", "", fiber.StatusUnauthorized},
		{"reports for manager", "/api/v1/reports", mara, fiber.StatusOK},
		{"activity log for manager", "/api/v1/activities", mara, fiber.StatusForbidden},
		{"activity log for supermanager", "/api/v1/activities", root, fiber.StatusOK},
		{"me", "/api/v1/auth/me", erin, fiber.StatusOK},
		{"health", "/api/v1/health", "", fiber.StatusOK},
	}
	for _, tc := range cases {
		resp := call(t, app, http.MethodGet, tc.path, tc.token, nil)
		require.Equal(t, tc.status, resp.StatusCode, tc.name)
	}
}

func TestEndToEndProjectFlow(t *testing.T) {
	app := newApp(t)
	root := login(t, app, "root")
	mara := login(t, app, "mara")
	erin := login(t, app, "erin")

	var me struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	resp := call(t, app, http.MethodGet, "/api/v1/auth/me", mara, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	maraID := me.Data.ID
	resp = call(t, app, http.MethodGet, "/api/v1/auth/me", erin, nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	erinID := me.Data.ID

	resp = call(t, app, http.MethodPost, "/api/v1/supermanager/projects", root, map[string]interface{}{
		"name": "Apollo", "assigned_to": maraID, "deadline": "2099-12-31",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var project struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&project))

	for _, status := range []string{"completed", "pending", "pending"} {
		resp = call(t, app, http.MethodPost, "/api/v1/manager/tasks", mara, map[string]interface{}{
			"title": "Step", "assigned_to": erinID, "project": project.Data.ID, "status": status,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp = call(t, app, http.MethodGet, "/api/v1/manager/projects", mara, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listing struct {
		Data []struct {
			Progress       int `json:"progress"`
			TotalTasks     int `json:"total_tasks"`
			CompletedTasks int `json:"completed_tasks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing.Data, 1)
	require.Equal(t, 33, listing.Data[0].Progress)
	require.Equal(t, 3, listing.Data[0].TotalTasks)
	require.Equal(t, 1, listing.Data[0].CompletedTasks)

	resp = call(t, app, http.MethodGet, "/api/v1/manager/dashboard-stats", mara, nil)
	var stats struct {
		Data struct {
			TotalProjects  int `json:"total_projects"`
			ActiveProjects int `json:"active_projects"`
			Pending        int `json:"pending_tasks"`
			Completed      int `json:"completed_tasks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.Equal(t, 1, stats.Data.TotalProjects)
	require.Equal(t, 1, stats.Data.ActiveProjects)
	require.Equal(t, 2, stats.Data.Pending)
	require.Equal(t, 1, stats.Data.Completed)

	resp = call(t, app, http.MethodGet, "/api/v1/activities?action=task.created", root, nil)
	var log struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&log))
	require.Len(t, log.Data, 3)
}
