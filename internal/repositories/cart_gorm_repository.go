package repositories

import (
	"errors"
	"fmt"

	"bazaar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreate returns the cart for sessionKey, creating an empty one if
// none exists yet.
func (r *GORMCartRepository) GetOrCreate(sessionKey string) (*models.Cart, error) {
	cart, err := r.GetBySessionKey(sessionKey)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	cart = &models.Cart{ID: uuid.New().String(), SessionKey: sessionKey}
	if err := r.db.Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

// GetBySessionKey retrieves a cart with its items and their products.
func (r *GORMCartRepository) GetBySessionKey(sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").First(&cart, "session_key = ?", sessionKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for session %s: %w", sessionKey, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for session %s: %w", sessionKey, err)
	}
	return &cart, nil
}

// GetItem retrieves a single cart item scoped to a cart.
func (r *GORMCartRepository) GetItem(cartID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// FindItemByProduct returns the line for productID in the cart, if any.
func (r *GORMCartRepository) FindItemByProduct(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// CreateItem adds a new line to a cart.
func (r *GORMCartRepository) CreateItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Omit("Product").Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity changes the quantity of an existing line.
func (r *GORMCartRepository) UpdateItemQuantity(itemID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// RemoveItem deletes a single line from a cart.
func (r *GORMCartRepository) RemoveItem(itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// Clear deletes a cart and all of its items.
func (r *GORMCartRepository) Clear(cartID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		if err := tx.Delete(&models.Cart{}, "id = ?", cartID).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	})
}
