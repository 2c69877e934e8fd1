package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/testutil"
)

func Test_notificationDomain_GetListAndMarkRead(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	notificationRepo := repository.NewNotificationRepository()
	for _, title := range []string{"first", "second", "third"} {
		err := notificationRepo.Create(ctx, &entity.Notification{
			Base:   entity.Base{ID: uuid.NewString()},
			UserID: testutil.User1.ID,
			Type:   entity.NotificationFriendRequest,
			Title:  title,
		})
		require.NoError(t, err)
	}

	domain := NewNotificationDomain(notificationRepo)

	resp, err := domain.GetList(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 3)
	require.Equal(t, int64(3), resp.UnreadCount)

	_, err = domain.MarkRead(ctx, &model.MarkNotificationReadRequest{
		ID: resp.Notifications[0].ID,
	})
	require.NoError(t, err)

	resp, err = domain.GetList(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.UnreadCount)

	// Notifications are scoped to their owner.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.MarkRead(ctx2, &model.MarkNotificationReadRequest{
		ID: resp.Notifications[1].ID,
	})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	other, err := domain.GetList(ctx2, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Empty(t, other.Notifications)

	_, err = domain.MarkAllRead(ctx, &model.MarkAllNotificationsReadRequest{})
	require.NoError(t, err)

	resp, err = domain.GetList(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Zero(t, resp.UnreadCount)

	_, err = domain.MarkRead(ctx, &model.MarkNotificationReadRequest{ID: "nothing"})
	require.Error(t, err)
	require.Equal(t, "Not found notification", err.Error())
}
