package repositories

import (
	"fmt"
	"sync"
	"time"

	"bazaar/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Products are resolved through the product repository so returned items
// always carry current product data, like the GORM preload does.
type MockCartRepository struct {
	carts    map[string]models.Cart     // keyed by cart ID
	items    map[string]models.CartItem // keyed by item ID
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(products *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		carts:    make(map[string]models.Cart),
		items:    make(map[string]models.CartItem),
		products: products,
	}
}

// GetOrCreate returns the cart for sessionKey, creating one if needed.
func (r *MockCartRepository) GetOrCreate(sessionKey string) (*models.Cart, error) {
	cart, err := r.GetBySessionKey(sessionKey)
	if err == nil {
		return cart, nil
	}

	r.mu.Lock()
	newCart := models.Cart{
		ID:         uuid.New().String(),
		SessionKey: sessionKey,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.carts[newCart.ID] = newCart
	r.mu.Unlock()
	return r.loadCart(newCart.ID)
}

// GetBySessionKey returns a cart with its items and products attached.
func (r *MockCartRepository) GetBySessionKey(sessionKey string) (*models.Cart, error) {
	r.mu.RLock()
	var cartID string
	for id, cart := range r.carts {
		if cart.SessionKey == sessionKey {
			cartID = id
			break
		}
	}
	r.mu.RUnlock()

	if cartID == "" {
		return nil, fmt.Errorf("cart for session %s: %w", sessionKey, ErrNotFound)
	}
	return r.loadCart(cartID)
}

// GetItem returns a single item scoped to a cart.
func (r *MockCartRepository) GetItem(cartID, itemID string) (*models.CartItem, error) {
	r.mu.RLock()
	item, ok := r.items[itemID]
	r.mu.RUnlock()
	if !ok || item.CartID != cartID {
		return nil, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	return r.attachProduct(item)
}

// FindItemByProduct returns the line for productID in the cart, if any.
func (r *MockCartRepository) FindItemByProduct(cartID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	for _, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			r.mu.RUnlock()
			return r.attachProduct(item)
		}
	}
	r.mu.RUnlock()
	return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// CreateItem adds a new line to a cart.
func (r *MockCartRepository) CreateItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[item.CartID]; !ok {
		return fmt.Errorf("cart %s: %w", item.CartID, ErrNotFound)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = models.Product{}
	r.items[item.ID] = stored
	return nil
}

// UpdateItemQuantity changes the quantity of an existing line.
func (r *MockCartRepository) UpdateItemQuantity(itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	r.items[itemID] = item
	return nil
}

// RemoveItem deletes a single line from a cart.
func (r *MockCartRepository) RemoveItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}
	delete(r.items, itemID)
	return nil
}

// Clear deletes a cart and all its items.
func (r *MockCartRepository) Clear(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
		}
	}
	delete(r.carts, cartID)
	return nil
}

func (r *MockCartRepository) loadCart(cartID string) (*models.Cart, error) {
	r.mu.RLock()
	cart, ok := r.carts[cartID]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("cart %s: %w", cartID, ErrNotFound)
	}
	var items []models.CartItem
	for _, item := range r.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	r.mu.RUnlock()

	cart.Items = make([]models.CartItem, 0, len(items))
	for _, item := range items {
		attached, err := r.attachProduct(item)
		if err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *attached)
	}
	return &cart, nil
}

func (r *MockCartRepository) attachProduct(item models.CartItem) (*models.CartItem, error) {
	product, err := r.products.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	item.Product = *product
	return &item, nil
}
