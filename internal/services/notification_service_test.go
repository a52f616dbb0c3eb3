package services_test

import (
	"testing"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture(t *testing.T) (*services.NotificationService, *repositories.MockNotificationRepository) {
	t.Helper()
	repo := repositories.NewMockNotificationRepository()
	return services.NewNotificationService(repo), repo
}

func TestActiveNotificationNone(t *testing.T) {
	service, _ := newNotificationFixture(t)

	// No notification at all is not an error.
	active, err := service.ActiveNotification()
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestActiveNotification(t *testing.T) {
	service, _ := newNotificationFixture(t)

	require.NoError(t, service.CreateNotification(&models.Notification{
		Message:  "Eid sale: free delivery all week",
		IsActive: true,
	}))

	active, err := service.ActiveNotification()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Eid sale: free delivery all week", active.Message)
}

func TestActivatingDeactivatesOthers(t *testing.T) {
	service, _ := newNotificationFixture(t)

	first := &models.Notification{Message: "First banner", IsActive: true}
	require.NoError(t, service.CreateNotification(first))

	second := &models.Notification{Message: "Second banner", IsActive: true}
	require.NoError(t, service.CreateNotification(second))

	active, err := service.ActiveNotification()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	stored, err := service.GetNotificationByID(first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// Re-activating the first flips it back the other way.
	stored.IsActive = true
	require.NoError(t, service.UpdateNotification(stored))

	active, err = service.ActiveNotification()
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestNotificationDisplayWindow(t *testing.T) {
	service, _ := newNotificationFixture(t)

	past := time.Now().Add(-2 * time.Hour)
	future := time.Now().Add(2 * time.Hour)

	// Window already over: active flag alone is not enough.
	expired := &models.Notification{
		Message:  "Expired banner",
		IsActive: true,
		StartsAt: &past,
		EndsAt:   &past,
	}
	require.NoError(t, service.CreateNotification(expired))

	active, err := service.ActiveNotification()
	require.NoError(t, err)
	assert.Nil(t, active)

	// Window not open yet.
	upcoming := &models.Notification{
		Message:  "Upcoming banner",
		IsActive: true,
		StartsAt: &future,
	}
	require.NoError(t, service.CreateNotification(upcoming))

	active, err = service.ActiveNotification()
	require.NoError(t, err)
	assert.Nil(t, active)

	// Window currently open.
	current := &models.Notification{
		Message:  "Current banner",
		IsActive: true,
		StartsAt: &past,
		EndsAt:   &future,
	}
	require.NoError(t, service.CreateNotification(current))

	active, err = service.ActiveNotification()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, current.ID, active.ID)
}

func TestGetAllNotificationsStableOrder(t *testing.T) {
	service, _ := newNotificationFixture(t)

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, service.CreateNotification(&models.Notification{Message: msg}))
	}

	first, err := service.GetAllNotifications()
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Repeated reads return the identical ordering.
	second, err := service.GetAllNotifications()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeleteNotification(t *testing.T) {
	service, _ := newNotificationFixture(t)

	n := &models.Notification{Message: "Doomed banner", IsActive: true}
	require.NoError(t, service.CreateNotification(n))
	require.NoError(t, service.DeleteNotification(n.ID))

	_, err := service.GetNotificationByID(n.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	active, err := service.ActiveNotification()
	require.NoError(t, err)
	assert.Nil(t, active)
}
