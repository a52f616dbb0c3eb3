package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bazaar/internal/models"

	"github.com/google/uuid"
)

// MockNotificationRepository is an in-memory implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	notifications map[string]models.Notification
	mu            sync.RWMutex
}

// NewMockNotificationRepository creates a new instance of
// MockNotificationRepository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[string]models.Notification),
	}
}

// GetAll returns all notifications, newest first with ID tiebreak.
func (r *MockNotificationRepository) GetAll() ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// GetByID returns a notification by its ID.
func (r *MockNotificationRepository) GetByID(id string) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return &n, nil
}

// GetActive returns the notification visible at now.
func (r *MockNotificationRepository) GetActive(now time.Time) (*models.Notification, error) {
	list, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].VisibleAt(now) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("active notification: %w", ErrNotFound)
}

// Create stores a notification, deactivating the rest when it is active.
func (r *MockNotificationRepository) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	if n.IsActive {
		r.deactivateOthersLocked(n.ID)
	}
	r.notifications[n.ID] = *n
	return nil
}

// Update saves a notification, keeping the single-active invariant.
func (r *MockNotificationRepository) Update(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[n.ID]; !ok {
		return fmt.Errorf("notification %s: %w", n.ID, ErrNotFound)
	}
	n.UpdatedAt = time.Now()
	if n.IsActive {
		r.deactivateOthersLocked(n.ID)
	}
	r.notifications[n.ID] = *n
	return nil
}

// Delete removes a notification.
func (r *MockNotificationRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	delete(r.notifications, id)
	return nil
}

func (r *MockNotificationRepository) deactivateOthersLocked(keepID string) {
	for id, other := range r.notifications {
		if id != keepID && other.IsActive {
			other.IsActive = false
			r.notifications[id] = other
		}
	}
}
