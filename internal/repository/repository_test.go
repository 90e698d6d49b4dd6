package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

type fixture struct {
	db        *gorm.DB
	super     models.User
	managerA  models.User
	managerB  models.User
	employeeA models.User
	employeeB models.User
	projectA  models.Project
	projectB  models.Project
	tasks     []models.Task
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

func seed(t *testing.T) fixture {
	t.Helper()
	db := setupTestDB(t)
	f := fixture{db: db}

	mkUser := func(username string, role models.Role) models.User {
		u := models.User{Username: username, Email: username + "@example.com", Role: role, IsActive: true, PasswordHash: "x"}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	f.super = mkUser("root", models.RoleSupermanager)
	f.managerA = mkUser("mara", models.RoleManager)
	f.managerB = mkUser("milo", models.RoleManager)
	f.employeeA = mkUser("erin", models.RoleEmployee)
	f.employeeB = mkUser("eli", models.RoleEmployee)

	mkProject := func(name string, manager models.User) models.Project {
		p := models.Project{Name: name, CreatedByID: f.super.ID, AssignedToID: manager.ID}
		require.NoError(t, db.Omit("CreatedBy", "AssignedTo", "Tasks").Create(&p).Error)
		return p
	}
	f.projectA = mkProject("Apollo", f.managerA)
	f.projectB = mkProject("Borealis", f.managerB)

	mkTask := func(title string, project *models.Project, assignee models.User) models.Task {
		task := models.Task{Title: title, Status: models.TaskStatusPending, AssignedToID: assignee.ID, AssignedByID: f.managerA.ID}
		if project != nil {
			id := project.ID
			task.ProjectID = &id
		}
		require.NoError(t, db.Omit("Project", "AssignedTo", "AssignedBy").Create(&task).Error)
		return task
	}
	f.tasks = []models.Task{
		mkTask("a1", &f.projectA, f.employeeA),
		mkTask("a2", &f.projectA, f.employeeB),
		mkTask("b1", &f.projectB, f.employeeA),
		mkTask("loose", nil, f.employeeA),
	}
	return f
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func requesterOf(u models.User) scope.Requester {
	return scope.Requester{ID: u.ID, Role: u.Role, Active: u.IsActive}
}

func TestTaskRepositoryAppliesManagerScope(t *testing.T) {
	f := seed(t)
	repo := NewTaskRepository(f.db)
	ctx := context.Background()

	tasks, err := repo.List(ctx, scope.Resolve(scope.KindTask, requesterOf(f.managerA), scope.Params{}))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a1", "a2"}, titles(tasks))

	foreign := f.projectB.ID
	tasks, err = repo.List(ctx, scope.Resolve(scope.KindTask, requesterOf(f.managerA), scope.Params{ProjectID: &foreign}))
	require.NoError(t, err)
	require.Empty(t, tasks)

	own := f.projectA.ID
	tasks, err = repo.List(ctx, scope.Resolve(scope.KindTask, requesterOf(f.managerA), scope.Params{ProjectID: &own}))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a1", "a2"}, titles(tasks))
	require.Equal(t, "Apollo", tasks[0].Project.Name)
}

func TestTaskRepositoryAppliesEmployeeAndSupermanagerScope(t *testing.T) {
	f := seed(t)
	repo := NewTaskRepository(f.db)
	ctx := context.Background()

	tasks, err := repo.List(ctx, scope.Resolve(scope.KindTask, requesterOf(f.employeeA), scope.Params{}))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a1", "b1", "loose"}, titles(tasks))

	projectB := f.projectB.ID
	tasks, err = repo.List(ctx, scope.Resolve(scope.KindTask, requesterOf(f.super), scope.Params{ProjectID: &projectB}))
	require.NoError(t, err)
	require.Equal(t, []string{"b1"}, titles(tasks))

	_, err = repo.FindInScope(ctx, scope.Resolve(scope.KindTask, requesterOf(f.employeeB), scope.Params{}), f.tasks[0].ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryScopes(t *testing.T) {
	f := seed(t)
	repo := NewUserRepository(f.db)
	ctx := context.Background()

	_, err := repo.Update(ctx, f.employeeB.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	all, err := repo.Count(ctx, scope.Resolve(scope.KindUser, requesterOf(f.super), scope.Params{}))
	require.NoError(t, err)
	require.Equal(t, int64(5), all)

	active, err := repo.Count(ctx, scope.Resolve(scope.KindUser, requesterOf(f.super), scope.Params{Dashboard: true}))
	require.NoError(t, err)
	require.Equal(t, int64(4), active)

	employees, err := repo.List(ctx, scope.Resolve(scope.KindUser, requesterOf(f.managerB), scope.Params{}))
	require.NoError(t, err)
	require.Len(t, employees, 2)
	for _, u := range employees {
		require.Equal(t, models.RoleEmployee, u.Role)
	}

	none, err := repo.List(ctx, scope.Resolve(scope.KindUser, requesterOf(f.employeeA), scope.Params{}))
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestProjectRepositoryScopeAndDelete(t *testing.T) {
	f := seed(t)
	repo := NewProjectRepository(f.db)
	tasks := NewTaskRepository(f.db)
	ctx := context.Background()

	projects, err := repo.ListWithTasks(ctx, scope.Resolve(scope.KindProject, requesterOf(f.managerA), scope.Params{}))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Apollo", projects[0].Name)
	require.Len(t, projects[0].Tasks, 2)
	require.Equal(t, "root", projects[0].CreatedBy.Username)

	require.NoError(t, repo.Delete(ctx, f.projectA.ID))
	require.ErrorIs(t, repo.Delete(ctx, f.projectA.ID), gorm.ErrRecordNotFound)

	orphan, err := tasks.FindInScope(ctx, scope.All(scope.KindTask), f.tasks[0].ID)
	require.NoError(t, err)
	require.Nil(t, orphan.ProjectID)
}

func TestRepositoriesListTouchedSince(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	old := time.Now().UTC().AddDate(0, 0, -40)
	require.NoError(t, f.db.Model(&models.Task{}).Where("id = ?", f.tasks[3].ID).
		UpdateColumns(map[string]interface{}{"created_at": old, "updated_at": old}).Error)

	since := time.Now().UTC().AddDate(0, 0, -30)
	recent, err := NewTaskRepository(f.db).ListTouchedSince(ctx, since)
	require.NoError(t, err)
	require.NotContains(t, titles(recent), "loose")
	require.Len(t, recent, 3)

	users, err := NewUserRepository(f.db).ListJoinedSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, users, 5)

	projects, err := NewProjectRepository(f.db).ListTouchedSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestActivityLogRepositoryListNewestFirst(t *testing.T) {
	f := seed(t)
	repo := NewActivityLogRepository(f.db)
	ctx := context.Background()

	for i, action := range []string{"task.created", "task.updated", "project.created"} {
		entry := models.Activity{UserID: f.managerA.ID, Action: action, Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Minute)}
		entry.SetSubject(models.TaskSubject{TaskID: f.tasks[0].ID})
		require.NoError(t, repo.Create(ctx, &entry))
	}

	entries, total, err := repo.List(ctx, ActivityLogFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 2)
	require.Equal(t, "project.created", entries[0].Action)
	require.Equal(t, "mara", entries[0].User.Username)
	require.Equal(t, models.TaskSubject{TaskID: f.tasks[0].ID}, entries[0].Subject())

	filtered, total, err := repo.List(ctx, ActivityLogFilter{Action: "task.updated"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
}

func TestUserRepositoryExistsByUsernameOrEmail(t *testing.T) {
	f := seed(t)
	repo := NewUserRepository(f.db)
	ctx := context.Background()

	usernameTaken, emailTaken, err := repo.ExistsByUsernameOrEmail(ctx, "ERIN", "fresh@example.com")
	require.NoError(t, err)
	require.True(t, usernameTaken)
	require.False(t, emailTaken)

	usernameTaken, emailTaken, err = repo.ExistsByUsernameOrEmail(ctx, "fresh", "Mara@Example.com")
	require.NoError(t, err)
	require.False(t, usernameTaken)
	require.True(t, emailTaken)
}
