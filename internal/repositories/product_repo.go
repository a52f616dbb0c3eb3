package repositories

import (
	"bazaar/internal/models"
)

// ProductFilter narrows product listings. The zero value lists everything.
type ProductFilter struct {
	Category   string
	Search     string // case-insensitive name substring
	BestSeller bool
	ActiveOnly bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
