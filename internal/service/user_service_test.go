package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

func validUserRequest() dto.UserCreateRequest {
	return dto.UserCreateRequest{
		Username:        "nina",
		Email:           "nina@example.com",
		FullName:        "Nina Park",
		Role:            "manager",
		Password:        "long-enough",
		ConfirmPassword: "long-enough",
	}
}

func TestUserServiceCreateValidatesPasswords(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewValidator(), f.activity, testLogger())
	ctx := context.Background()

	req := validUserRequest()
	req.Password, req.ConfirmPassword = "short", "short"
	_, err := svc.Create(ctx, requesterOf(f.super), req)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "Password must be at least 8 characters", verr.Fields["password"])

	req = validUserRequest()
	req.ConfirmPassword = "different-one"
	_, err = svc.Create(ctx, requesterOf(f.super), req)
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "Password fields didn't match.", verr.Fields["password"])

	req = validUserRequest()
	req.Username = "erin"
	_, err = svc.Create(ctx, requesterOf(f.super), req)
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, verr.Fields, "username")

	require.Empty(t, f.activity.entries)
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewValidator(), f.activity, testLogger())

	created, err := svc.Create(context.Background(), requesterOf(f.super), validUserRequest())
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.Equal(t, models.RoleManager, created.Role)

	stored, err := f.users.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotEqual(t, "long-enough", stored.PasswordHash)
	require.True(t, checkPassword(stored.PasswordHash, "long-enough"))
	require.Equal(t, []string{"user.created"}, f.activity.actions())

	_, err = svc.Create(context.Background(), requesterOf(f.managerA), validUserRequest())
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUserServiceListScopes(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewValidator(), f.activity, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, requesterOf(f.super), f.employeeB.ID))

	all, err := svc.List(ctx, requesterOf(f.super), scope.Params{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	active, err := svc.List(ctx, requesterOf(f.super), scope.Params{Dashboard: true})
	require.NoError(t, err)
	require.Len(t, active, 4)

	employees, err := svc.List(ctx, requesterOf(f.managerA), scope.Params{})
	require.NoError(t, err)
	require.Len(t, employees, 2)

	_, err = svc.List(ctx, requesterOf(f.employeeA), scope.Params{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUserServiceDeactivateAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, NewValidator(), f.activity, testLogger())
	ctx := context.Background()

	err := svc.Deactivate(ctx, requesterOf(f.super), f.super.ID)
	_, ok := AsValidationError(err)
	require.True(t, ok)

	require.ErrorIs(t, svc.Deactivate(ctx, requesterOf(f.super), 9999), ErrNotFound)

	updated, err := svc.Update(ctx, requesterOf(f.super), f.employeeA.ID, dto.UserUpdateRequest{
		Role:     strPtr("manager"),
		FullName: strPtr("Erin V."),
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, updated.Role)
	require.Equal(t, "Erin V.", updated.FullName)

	_, err = svc.Update(ctx, requesterOf(f.super), f.employeeA.ID, dto.UserUpdateRequest{Password: strPtr("new-password")})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "Password fields didn't match.", verr.Fields["password"])

	_, err = svc.Update(ctx, requesterOf(f.super), f.employeeA.ID, dto.UserUpdateRequest{Email: strPtr("mara@example.com")})
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, verr.Fields, "email")

	require.Equal(t, []string{"user.updated"}, f.activity.actions())
	require.Equal(t, []string{"full_name", "role"}, f.activity.entries[0].Details["fields"])
}

func TestBootstrapSupermanager(t *testing.T) {
	f := newFixture(t)
	validate := NewValidator()

	created, err := BootstrapSupermanager(context.Background(), f.users, validate, dto.UserCreateRequest{
		Username:        "owner",
		Email:           "owner@example.com",
		Role:            "employee",
		Password:        "long-enough-1",
		ConfirmPassword: "long-enough-1",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleSupermanager, created.Role)
	require.True(t, created.IsActive)

	_, err = BootstrapSupermanager(context.Background(), f.users, validate, dto.UserCreateRequest{
		Username:        "root",
		Email:           "fresh@example.com",
		Password:        "long-enough-1",
		ConfirmPassword: "long-enough-1",
	})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, verr.Fields, "username")
}
