package repositories

import (
	"bazaar/internal/models"
)

// CartRepository defines the interface for cart data access. Carts are
// keyed by an opaque session key; items are always returned with their
// product loaded so callers can price them.
type CartRepository interface {
	GetOrCreate(sessionKey string) (*models.Cart, error)
	GetBySessionKey(sessionKey string) (*models.Cart, error)
	GetItem(cartID, itemID string) (*models.CartItem, error)
	FindItemByProduct(cartID, productID string) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID string, quantity int) error
	RemoveItem(itemID string) error
	// Clear deletes the cart and all its items.
	Clear(cartID string) error
}
