package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
	"github.com/noah-isme/teamboard-api/internal/service"
)

const testPassword = "s3cret-pass"

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Details map[string]string `json:"details"`
}

type harness struct {
	db       *gorm.DB
	super    models.User
	manager  models.User
	other    models.User
	employee models.User
	apollo   models.Project
	borealis models.Project

	auth      service.AuthService
	users     service.UserService
	projects  service.ProjectService
	tasks     service.TaskService
	dashboard service.DashboardService
	feed      service.ActivityFeedService
	activity  service.ActivityService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	h := &harness{db: db}
	mkUser := func(username, fullName string, role models.Role, active bool) models.User {
		u := models.User{Username: username, Email: username + "@example.com", FullName: fullName, Role: role, IsActive: active, PasswordHash: string(hash)}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	h.super = mkUser("root", "Root Admin", models.RoleSupermanager, true)
	h.manager = mkUser("mara", "Mara Lane", models.RoleManager, true)
	h.other = mkUser("milo", "", models.RoleManager, true)
	h.employee = mkUser("erin", "Erin Vale", models.RoleEmployee, true)
	mkUser("gone", "", models.RoleEmployee, false)

	mkProject := func(name string, manager models.User) models.Project {
		p := models.Project{Name: name, CreatedByID: h.super.ID, AssignedToID: manager.ID}
		require.NoError(t, db.Omit("CreatedBy", "AssignedTo", "Tasks").Create(&p).Error)
		return p
	}
	h.apollo = mkProject("Apollo", h.manager)
	h.borealis = mkProject("Borealis", h.other)

	logger := zerolog.Nop()
	validate := service.NewValidator()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	h.activity = service.NewActivityService(repository.NewActivityLogRepository(db), nil, "", logger)
	h.auth = service.NewAuthService(userRepo, validate, h.activity, service.AuthConfig{Secret: "handler-secret"}, logger)
	h.users = service.NewUserService(userRepo, validate, h.activity, logger)
	h.projects = service.NewProjectService(projectRepo, userRepo, validate, h.activity, logger)
	h.tasks = service.NewTaskService(taskRepo, projectRepo, userRepo, validate, h.activity, logger)
	h.dashboard = service.NewDashboardService(userRepo, projectRepo, taskRepo, nil, 0, logger)
	h.feed = service.NewActivityFeedService(taskRepo, projectRepo, userRepo, service.DefaultFeedOptions(), logger)
	return h
}

func (h *harness) addTask(t *testing.T, title string, project *models.Project, status models.TaskStatus) models.Task {
	t.Helper()
	task := models.Task{Title: title, Status: status, AssignedToID: h.employee.ID, AssignedByID: h.manager.ID}
	if project != nil {
		id := project.ID
		task.ProjectID = &id
	}
	require.NoError(t, h.db.Omit("Project", "AssignedTo", "AssignedBy").Create(&task).Error)
	return task
}

// as builds an app whose requests run as user. register attaches the handler under test.
func as(user models.User, register func(router fiber.Router)) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1", func(c *fiber.Ctx) error {
		if user.ID != 0 {
			c.Locals("requester", scope.Requester{ID: user.ID, Role: user.Role, Active: user.IsActive})
		}
		return c.Next()
	})
	register(group)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	decodeResponse(t, resp, &env)
	return resp, env
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func decodeData(t *testing.T, env envelope, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, target))
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}
