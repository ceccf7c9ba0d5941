package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniapply/uniapply-api/internal/models"
	appErrors "github.com/uniapply/uniapply-api/pkg/errors"
)

type mockNotificationRepo struct {
	notifications []models.Notification
	markResult    int64
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, _ string) ([]models.Notification, error) {
	return m.notifications, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, _ string) (int64, error) {
	return m.markResult, nil
}

func TestNotificationServiceListRequiresUserID(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, nil)

	_, err := svc.List(context.Background(), "")
	require.Error(t, err)
	e := appErrors.FromError(err)
	assert.Equal(t, 400, e.Status)
	assert.Equal(t, "User ID required", e.Message)
}

func TestNotificationServiceListReturnsEmptySlice(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, nil)

	notifications, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}

func TestNotificationServiceMarkRead(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{markResult: 1}, nil)
	require.NoError(t, svc.MarkRead(context.Background(), "n1"))
}

func TestNotificationServiceMarkReadNotFound(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{markResult: 0}, nil)

	err := svc.MarkRead(context.Background(), "missing")
	require.Error(t, err)
	e := appErrors.FromError(err)
	assert.Equal(t, 404, e.Status)
	assert.Equal(t, "Notification not found", e.Message)
}
