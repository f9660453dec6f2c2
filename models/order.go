package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransitionTo reports whether an order in status s may move to target.
// completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is immutable after creation except for its status; totals are fixed
// price snapshots, never recomputed from the live catalog.
type Order struct {
	ID              int         `json:"id"`
	OrderNumber     string      `json:"order_number"`
	UserID          int         `json:"user_id"`
	AddressID       int         `json:"address_id"`
	ShippingAddress string      `json:"shipping_address"`
	Subtotal        int         `json:"subtotal"`
	ShippingFee     int         `json:"shipping_fee"`
	DiscountAmount  int         `json:"discount_amount"`
	TotalAmount     int         `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID          int    `json:"id"`
	OrderID     int    `json:"order_id"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	Subtotal    int    `json:"subtotal"`
}
