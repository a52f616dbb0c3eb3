package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCartEmpty is returned by Checkout when the session has no cart or
	// the cart has no items.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrAlreadyShipped is returned when a shipment registration is
	// attempted for an order that already has a consignment.
	ErrAlreadyShipped = errors.New("order is already registered with the courier")

	// ErrNotShipped is returned when a courier status lookup is attempted
	// for an order without a consignment.
	ErrNotShipped = errors.New("order has no courier consignment")

	// ErrInvalidStatus is returned when an order status update names an
	// unknown status.
	ErrInvalidStatus = errors.New("invalid order status")
)

// StockShortage identifies one product that cannot cover the requested
// quantity.
type StockShortage struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError aborts a checkout before any mutation. It names
// every offending product so the client can fix the cart in one pass.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.ProductName, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
