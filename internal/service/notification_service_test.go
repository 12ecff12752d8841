package service

import (
	"context"
	"testing"

	"lineup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SetRead(t *testing.T) {
	t.Parallel()

	t.Run("recipient marks read", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.Notification, error) {
			return &models.Notification{ID: id, RecipientID: aliceID, IsRead: false}, nil
		}
		var wroteRead bool
		repo.setReadFn = func(_ context.Context, _ string, isRead bool) error {
			wroteRead = isRead
			return nil
		}
		svc := NewNotificationService(repo)

		n, err := svc.SetRead(context.Background(), "n1", aliceID, true)
		require.NoError(t, err)
		assert.True(t, n.IsRead)
		assert.True(t, wroteRead)
	})

	t.Run("marking an already-read notification read succeeds", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.Notification, error) {
			return &models.Notification{ID: id, RecipientID: aliceID, IsRead: true}, nil
		}
		svc := NewNotificationService(repo)

		n, err := svc.SetRead(context.Background(), "n1", aliceID, true)
		require.NoError(t, err)
		assert.True(t, n.IsRead)
	})

	t.Run("non-recipient is rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopNotificationRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.Notification, error) {
			return &models.Notification{ID: id, RecipientID: aliceID}, nil
		}
		svc := NewNotificationService(repo)

		_, err := svc.SetRead(context.Background(), "n1", bobID, true)
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("missing notification", func(t *testing.T) {
		t.Parallel()
		svc := NewNotificationService(noopNotificationRepo())

		_, err := svc.SetRead(context.Background(), "ghost", aliceID, true)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}
