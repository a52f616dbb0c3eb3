package models

import "time"

// Cart is a mutable collection of line items pending purchase, keyed by an
// opaque session key. It is destroyed when a checkout succeeds.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionKey string     `json:"session_key" gorm:"uniqueIndex;type:varchar(40)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Total sums the current effective price of every line item. The cart total
// is informational; the authoritative total is computed again at checkout.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount returns the total quantity across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is a single product+quantity line in a cart. A cart holds at
// most one line per product; adding the same product again merges
// quantities.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal is quantity times the product's current effective price.
func (i *CartItem) Subtotal() float64 {
	return i.Product.CurrentPrice() * float64(i.Quantity)
}
