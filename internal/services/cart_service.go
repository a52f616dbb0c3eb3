package services

import (
	"errors"
	"fmt"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// CartService handles business logic for session carts. Stock checks here
// are a courtesy to the shopper; the authoritative check happens inside
// the checkout transaction.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the cart for the session, creating an empty one if the
// session has none.
func (s *CartService) GetCart(sessionKey string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreate(sessionKey)
}

// AddItem puts quantity units of a product into the session's cart,
// merging with an existing line for the same product.
func (s *CartService) AddItem(sessionKey, productID string, quantity int) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product %s: %w", productID, repositories.ErrNotFound)
	}

	cart, err := s.cartRepo.GetOrCreate(sessionKey)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	existing, err := s.cartRepo.FindItemByProduct(cart.ID, productID)
	switch {
	case err == nil:
		newQuantity += existing.Quantity
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	if newQuantity > product.Stock {
		return nil, &InsufficientStockError{Shortages: []StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   newQuantity,
			Available:   product.Stock,
		}}}
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, newQuantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	return s.cartRepo.GetBySessionKey(sessionKey)
}

// UpdateItem sets the quantity of a cart line.
func (s *CartService) UpdateItem(sessionKey, itemID string, quantity int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetBySessionKey(sessionKey)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity > item.Product.Stock {
		return nil, &InsufficientStockError{Shortages: []StockShortage{{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Requested:   quantity,
			Available:   item.Product.Stock,
		}}}
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetBySessionKey(sessionKey)
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(sessionKey, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetBySessionKey(sessionKey)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(item.ID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetBySessionKey(sessionKey)
}

// Clear deletes the session's cart and all its items.
func (s *CartService) Clear(sessionKey string) error {
	cart, err := s.cartRepo.GetBySessionKey(sessionKey)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(cart.ID)
}
