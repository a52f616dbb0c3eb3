package repositories

import (
	"errors"
	"fmt"
	"time"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of
// NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of
// GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// GetAll retrieves all notifications, newest first. The ordering key
// includes the ID so repeated reads return an identical sequence.
func (r *GORMNotificationRepository) GetAll() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// GetByID retrieves a single notification.
func (r *GORMNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}
	return &n, nil
}

// GetActive returns the notification visible at now. The display window is
// checked in Go so nullable bounds behave the same on every driver.
func (r *GORMNotificationRepository) GetActive(now time.Time) (*models.Notification, error) {
	var candidates []models.Notification
	err := r.db.Where("is_active = ?", true).Order("created_at DESC, id DESC").Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active notifications: %w", err)
	}
	for i := range candidates {
		if candidates[i].VisibleAt(now) {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("active notification: %w", ErrNotFound)
}

// Create stores a notification. When it is active, every other
// notification is deactivated in the same transaction.
func (r *GORMNotificationRepository) Create(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if n.IsActive {
			if err := deactivateOthers(tx, n.ID); err != nil {
				return err
			}
		}
		if err := tx.Create(n).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
}

// Update saves a notification, keeping the single-active invariant.
func (r *GORMNotificationRepository) Update(n *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if n.IsActive {
			if err := deactivateOthers(tx, n.ID); err != nil {
				return err
			}
		}
		res := tx.Save(n)
		if res.Error != nil {
			return fmt.Errorf("failed to update notification: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("notification %s: %w", n.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete removes a notification.
func (r *GORMNotificationRepository) Delete(id string) error {
	res := r.db.Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func deactivateOthers(tx *gorm.DB, keepID string) error {
	err := tx.Model(&models.Notification{}).
		Where("is_active = ? AND id <> ?", true, keepID).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate notifications: %w", err)
	}
	return nil
}
