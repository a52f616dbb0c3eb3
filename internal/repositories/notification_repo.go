package repositories

import (
	"time"

	"bazaar/internal/models"
)

// NotificationRepository defines the interface for notification data
// access. Create and Update keep the single-active invariant: persisting
// an active notification deactivates every other one.
type NotificationRepository interface {
	GetAll() ([]models.Notification, error)
	GetByID(id string) (*models.Notification, error)
	// GetActive returns the notification visible at now, or ErrNotFound.
	GetActive(now time.Time) (*models.Notification, error)
	Create(n *models.Notification) error
	Update(n *models.Notification) error
	Delete(id string) error
}
