package services

import (
	"errors"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// NotificationService handles the site-wide banner feed.
type NotificationService struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
		now:  time.Now,
	}
}

// GetAllNotifications retrieves every notification, newest first.
func (s *NotificationService) GetAllNotifications() ([]models.Notification, error) {
	return s.repo.GetAll()
}

// GetNotificationByID retrieves a single notification.
func (s *NotificationService) GetNotificationByID(id string) (*models.Notification, error) {
	return s.repo.GetByID(id)
}

// ActiveNotification returns the banner currently visible, or nil when
// none is.
func (s *NotificationService) ActiveNotification() (*models.Notification, error) {
	n, err := s.repo.GetActive(s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// CreateNotification stores a new notification. Activating it deactivates
// every other one.
func (s *NotificationService) CreateNotification(n *models.Notification) error {
	return s.repo.Create(n)
}

// UpdateNotification saves changes to a notification.
func (s *NotificationService) UpdateNotification(n *models.Notification) error {
	return s.repo.Update(n)
}

// DeleteNotification removes a notification.
func (s *NotificationService) DeleteNotification(id string) error {
	return s.repo.Delete(id)
}
