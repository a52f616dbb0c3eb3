package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bazaar/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Place collaborates with the product and cart repositories so the
// check-and-decrement stays atomic, matching the database transaction of
// the GORM implementation.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	carts    *MockCartRepository
	mu       sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository, carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
		carts:    carts,
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// Place decrements stock for every line, stores the order, and clears the
// cart. Placements serialize on the repository mutex; a failed decrement
// restores the lines already taken, so a conflict leaves stock untouched
// and no order behind.
func (r *MockOrderRepository) Place(order *models.Order, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var taken []models.OrderItem
	for _, item := range order.Items {
		if err := r.products.DecrementStock(item.ProductID, item.Quantity); err != nil {
			for _, t := range taken {
				// Restore is best effort; the product existed moments ago.
				_ = r.products.AddStock(t.ProductID, t.Quantity)
			}
			return err
		}
		taken = append(taken, item)
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order

	if cartID != "" {
		if err := r.carts.Clear(cartID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// UpdateCourierStatus stores a refreshed courier status and the derived
// order status.
func (r *MockOrderRepository) UpdateCourierStatus(id string, courierStatus, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.CourierStatus = courierStatus
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetShipment attaches courier details and marks the order shipped.
func (r *MockOrderRepository) SetShipment(id string, consignmentID int64, trackingCode, courierStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.ConsignmentID = consignmentID
	order.TrackingCode = trackingCode
	order.CourierStatus = courierStatus
	order.Status = models.OrderStatusShipped
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
