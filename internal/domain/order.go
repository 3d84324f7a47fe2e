package domain

import "time"

// OrderStatus values as reported by the backend. The storefront only reads
// them; order lifecycle belongs to the backend.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is one priced line of a placed order, as returned by the
// backend. Price here is the backend's price at order time, not the cart's
// add-time snapshot.
type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Product   Product `json:"product"`
}

// Order is an external entity referenced by id after checkout; it is never
// mutated locally.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}
