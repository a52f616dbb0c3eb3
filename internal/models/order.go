package models

import "time"

// Order statuses. An order is created by checkout and only ever moves
// forward through these; shipping information is attached out of band.
const (
	OrderStatusCreated   = "created"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a single line at the time of purchase. The
// product name and unit price are copied so later catalog edits cannot
// retroactively alter the order.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Subtotal is the snapshotted unit price times quantity.
func (i *OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is an immutable record of a completed checkout. Only the status and
// the courier fields change after creation.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionKey    string      `json:"session_key" gorm:"index;type:varchar(40)"`
	CustomerName  string      `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string      `json:"customer_phone" validate:"required,max=20"`
	CustomerEmail string      `json:"customer_email" validate:"omitempty,email"`
	Address       string      `json:"address" validate:"required,max=250"`
	District      string      `json:"district" validate:"omitempty,max=100"`
	Notes         string      `json:"notes" validate:"omitempty,max=500"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `json:"status" gorm:"index;type:varchar(20)"`

	// Courier fields, populated when shipment registration succeeds.
	ConsignmentID int64  `json:"consignment_id,omitempty"`
	TrackingCode  string `json:"tracking_code,omitempty" gorm:"type:varchar(50)"`
	CourierStatus string `json:"courier_status,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoice returns the invoice identifier the courier sees for this order.
func (o *Order) Invoice() string {
	return "ORD-" + o.ID
}
