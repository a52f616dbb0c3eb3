package repositories

import (
	"bazaar/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)

	// Place persists the order and decrements stock for every line item in
	// a single transaction, then deletes the cart identified by cartID
	// (skipped when cartID is empty). Any line whose conditional decrement
	// matches no row aborts the whole transaction with ErrStockConflict;
	// nothing is committed.
	Place(order *models.Order, cartID string) error

	UpdateStatus(id string, status string) error

	// UpdateCourierStatus stores a refreshed courier status together with
	// the order status derived from it.
	UpdateCourierStatus(id string, courierStatus, status string) error

	// SetShipment attaches courier registration results and moves the
	// order to the shipped status.
	SetShipment(id string, consignmentID int64, trackingCode, courierStatus string) error
}
