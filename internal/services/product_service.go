package services

import (
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves active products, optionally narrowed by category
// or a name search. This is the public storefront listing.
func (s *ProductService) ListProducts(category, search string) ([]models.Product, error) {
	return s.repo.GetAll(repositories.ProductFilter{
		Category:   category,
		Search:     search,
		ActiveOnly: true,
	})
}

// ListBestSellers retrieves active best-seller products in rank order.
func (s *ProductService) ListBestSellers() ([]models.Product, error) {
	return s.repo.GetAll(repositories.ProductFilter{
		BestSeller: true,
		ActiveOnly: true,
	})
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
