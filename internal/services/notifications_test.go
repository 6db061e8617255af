package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/testutil"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_CreateListAndRead(t *testing.T) {
	db := testutil.MustOpen(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, models.RoleClient, "pat")
	other := testutil.CreateUser(t, db, models.RoleClient, "quinn")

	notifier := newRecordingNotifier()
	svc := NewNotificationService(db, notifier)

	first, err := svc.Create(ctx, owner.ID, models.NotificationTypeSystem, "Welcome", "Hello")
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, models.NotificationTypeAssignment, "New workout", "Leg day")
	require.NoError(t, err)
	assert.Equal(t, 2, notifier.count(owner.ID))

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	unread, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	err = svc.MarkRead(ctx, other.ID, first.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)

	require.NoError(t, svc.MarkRead(ctx, owner.ID, first.ID))
	unread, _ = svc.UnreadCount(ctx, owner.ID)
	assert.Equal(t, int64(1), unread)

	changed, err := svc.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	unread, _ = svc.UnreadCount(ctx, owner.ID)
	assert.Zero(t, unread)
}

func TestNotifications_MarkReadMissing(t *testing.T) {
	db := testutil.MustOpen(t)
	svc := NewNotificationService(db, nil)

	err := svc.MarkRead(context.Background(), "someone", "missing")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}
