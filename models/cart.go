package models

import "time"

// Cart caches total_items and total_amount; both are always re-derived from
// the cart's lines, never incremented in place.
type Cart struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	TotalItems  int        `json:"total_items"`
	TotalAmount int        `json:"total_amount"`
	Items       []CartItem `json:"items"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CartItem is unique per (cart_id, product_id). PriceAtTime is the catalog
// price captured when the line was last added to or its quantity changed;
// it is not refreshed on reads.
type CartItem struct {
	ID          int       `json:"id"`
	CartID      int       `json:"cart_id"`
	UserID      int       `json:"-"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Quantity    int       `json:"quantity"`
	PriceAtTime int       `json:"price_at_time"`
	LineTotal   int       `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
