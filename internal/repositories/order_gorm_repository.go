package repositories

import (
	"errors"
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their items, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Place commits the checkout in one transaction: a conditional stock
// decrement per line item, the order insert, and the cart delete. The
// decrement only matches rows that still hold enough stock, so a
// concurrent checkout that drained the product surfaces here as
// ErrStockConflict and rolls everything back. No row stays locked past
// commit; courier registration happens outside, afterwards.
func (r *GORMOrderRepository) Place(order *models.Order, cartID string) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrStockConflict)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if cartID != "" {
			if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
				return fmt.Errorf("failed to clear cart items: %w", err)
			}
			if err := tx.Delete(&models.Cart{}, "id = ?", cartID).Error; err != nil {
				return fmt.Errorf("failed to delete cart: %w", err)
			}
		}
		return nil
	})
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateCourierStatus stores a refreshed courier status and the order
// status derived from it.
func (r *GORMOrderRepository) UpdateCourierStatus(id string, courierStatus, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"courier_status": courierStatus,
		"status":         status,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update courier status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetShipment stores the courier registration result and marks the order
// shipped.
func (r *GORMOrderRepository) SetShipment(id string, consignmentID int64, trackingCode, courierStatus string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"consignment_id": consignmentID,
		"tracking_code":  trackingCode,
		"courier_status": courierStatus,
		"status":         models.OrderStatusShipped,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set shipment for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}
