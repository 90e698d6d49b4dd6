package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

func init() {
	passwordCost = bcrypt.MinCost
}

type recordedActivity struct {
	entries []ActivityEntry
}

func (r *recordedActivity) Record(_ context.Context, entry ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordedActivity) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.Action)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	users     repository.UserRepository
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository
	activity  *recordedActivity
	super     models.User
	managerA  models.User
	managerB  models.User
	employeeA models.User
	employeeB models.User
	projectA  models.Project
	projectB  models.Project
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

// newFixture seeds a supermanager, two managers with one project each, and two employees.
func newFixture(t *testing.T) fixture {
	t.Helper()
	db := setupTestDB(t)
	f := fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		activity: &recordedActivity{},
	}

	hash, err := hashPassword("s3cret-pass")
	require.NoError(t, err)
	mkUser := func(username, fullName string, role models.Role) models.User {
		u := models.User{Username: username, Email: username + "@example.com", FullName: fullName, Role: role, IsActive: true, PasswordHash: hash}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	f.super = mkUser("root", "Root Admin", models.RoleSupermanager)
	f.managerA = mkUser("mara", "Mara Lane", models.RoleManager)
	f.managerB = mkUser("milo", "", models.RoleManager)
	f.employeeA = mkUser("erin", "Erin Vale", models.RoleEmployee)
	f.employeeB = mkUser("eli", "", models.RoleEmployee)

	mkProject := func(name string, manager models.User) models.Project {
		p := models.Project{Name: name, CreatedByID: f.super.ID, AssignedToID: manager.ID}
		require.NoError(t, db.Omit("CreatedBy", "AssignedTo", "Tasks").Create(&p).Error)
		return p
	}
	f.projectA = mkProject("Apollo", f.managerA)
	f.projectB = mkProject("Borealis", f.managerB)
	return f
}

func (f fixture) addTask(t *testing.T, title string, project *models.Project, assignee models.User, status models.TaskStatus, due *time.Time) models.Task {
	t.Helper()
	task := models.Task{Title: title, Status: status, AssignedToID: assignee.ID, AssignedByID: f.managerA.ID, DueDate: due}
	if project != nil {
		id := project.ID
		task.ProjectID = &id
	}
	require.NoError(t, f.db.Omit("Project", "AssignedTo", "AssignedBy").Create(&task).Error)
	return task
}

func requesterOf(u models.User) scope.Requester {
	return scope.Requester{ID: u.ID, Role: u.Role, Active: u.IsActive}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
