package models

import (
	"encoding/json"
	"time"
)

// Product represents an item in the catalog.
//
// A product carries a regular and an optional offer price; the offer price
// wins whenever it is set and lower. Order items snapshot the effective
// price at checkout, so later price edits never touch past orders.
type Product struct {
	ID             string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string   `json:"name" validate:"required,min=3,max=200"`
	Description    string   `json:"description" validate:"omitempty,max=2000"`
	Category       string   `json:"category" gorm:"index;type:varchar(50)" validate:"omitempty,max=50"`
	RegularPrice   float64  `json:"regular_price" validate:"required,gt=0"`
	OfferPrice     *float64 `json:"offer_price,omitempty" validate:"omitempty,gt=0"`
	ImageURL       string   `json:"image_url" validate:"omitempty,url,max=500"`
	Stock          int      `json:"stock" validate:"gte=0"`
	IsActive       bool     `json:"is_active" gorm:"default:true"`
	BestSeller     bool     `json:"best_seller" gorm:"index"`
	BestSellerRank int      `json:"best_seller_rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentPrice returns the offer price when one is set and beats the
// regular price, otherwise the regular price.
func (p *Product) CurrentPrice() float64 {
	if p.OfferPrice != nil && *p.OfferPrice < p.RegularPrice {
		return *p.OfferPrice
	}
	return p.RegularPrice
}

// HasOffer reports whether the product is currently discounted.
func (p *Product) HasOffer() bool {
	return p.OfferPrice != nil && *p.OfferPrice < p.RegularPrice
}

// MarshalJSON adds the computed pricing fields so the storefront can
// render a price without re-implementing the offer rule.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		CurrentPrice float64 `json:"current_price"`
		HasOffer     bool    `json:"has_offer"`
	}{
		alias:        alias(p),
		CurrentPrice: p.CurrentPrice(),
		HasOffer:     p.HasOffer(),
	})
}
