package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.Activity
}

func (m *memoryActivityRepo) Create(_ context.Context, entry *models.Activity) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.Timestamp = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(_ context.Context, _ repository.ActivityLogFilter) ([]models.Activity, int64, error) {
	return append([]models.Activity(nil), m.entries...), int64(len(m.entries)), nil
}

type capturePublisher struct {
	subject  string
	messages [][]byte
	err      error
}

func (p *capturePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.messages = append(p.messages, data)
	return p.err
}

func TestActivityServiceRecordMasksSecrets(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, "", testLogger())

	err := svc.Record(context.Background(), ActivityEntry{
		Actor:   ActivityActor{ID: 1, Role: models.RoleSupermanager},
		Action:  " User.Updated ",
		Subject: models.UserSubject{UserID: 5},
		Details: map[string]interface{}{
			"password":     "hunter22",
			"access_token": "abc",
			"note":         "<script>x</script>Hello & bye",
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	stored := repo.entries[0]
	require.Equal(t, "user.updated", stored.Action)
	require.Equal(t, "***", stored.Details["password"])
	require.Equal(t, "***", stored.Details["access_token"])
	require.Equal(t, "Hello & bye", stored.Details["note"])
	require.Equal(t, models.UserSubject{UserID: 5}, stored.Subject())
}

func TestActivityServiceRecordRequiresSubjectAndActor(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, nil, "", testLogger())
	ctx := context.Background()

	require.Error(t, svc.Record(ctx, ActivityEntry{Actor: ActivityActor{ID: 1}, Action: "task.created"}))
	require.Error(t, svc.Record(ctx, ActivityEntry{Action: "task.created", Subject: models.TaskSubject{TaskID: 1}}))
	require.Error(t, svc.Record(ctx, ActivityEntry{Actor: ActivityActor{ID: 1}, Subject: models.TaskSubject{TaskID: 1}}))
}

func TestActivityServicePublishesRecordedEntries(t *testing.T) {
	repo := &memoryActivityRepo{}
	publisher := &capturePublisher{}
	svc := NewActivityService(repo, publisher, "teamboard.activity", testLogger())

	require.NoError(t, svc.Record(context.Background(), ActivityEntry{
		Actor:   ActivityActor{ID: 2, Role: models.RoleManager},
		Action:  "task.created",
		Subject: models.TaskSubject{TaskID: 11},
	}))
	require.Equal(t, "teamboard.activity", publisher.subject)
	require.Len(t, publisher.messages, 1)

	var message map[string]interface{}
	require.NoError(t, json.Unmarshal(publisher.messages[0], &message))
	require.Equal(t, "task.created", message["action"])
	require.Equal(t, "manager", message["user_role"])
	require.Equal(t, map[string]interface{}{"kind": "task", "id": float64(11)}, message["subject"])

	publisher.err = errors.New("nats down")
	require.NoError(t, svc.Record(context.Background(), ActivityEntry{
		Actor:   ActivityActor{ID: 2, Role: models.RoleManager},
		Action:  "task.deleted",
		Subject: models.TaskSubject{TaskID: 11},
	}))
	require.Len(t, repo.entries, 2)
}

func TestActivityServiceListIsSupermanagerOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(repository.NewActivityLogRepository(f.db), nil, "", testLogger())
	ctx := context.Background()

	for _, action := range []string{"project.created", "task.created", "task.updated"} {
		require.NoError(t, svc.Record(ctx, ActivityEntry{
			Actor:   actorOf(requesterOf(f.managerA)),
			Action:  action,
			Subject: models.ProjectSubject{ProjectID: f.projectA.ID},
		}))
	}

	_, err := svc.List(ctx, requesterOf(f.managerA), dto.ActivityLogListRequest{})
	require.ErrorIs(t, err, ErrForbidden)

	page, err := svc.List(ctx, requesterOf(f.super), dto.ActivityLogListRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, int64(3), page.Pagination.TotalItems)
	require.Equal(t, 2, page.Pagination.TotalPages)
	require.Equal(t, "task.updated", page.Items[0].Action)
	require.Equal(t, "Mara Lane", page.Items[0].User)

	tasksOnly, err := svc.List(ctx, requesterOf(f.super), dto.ActivityLogListRequest{Action: "task.created"})
	require.NoError(t, err)
	require.Len(t, tasksOnly.Items, 1)
}
