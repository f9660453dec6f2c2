package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" form:"full_name"`
	Phone    string `json:"phone" form:"phone"`
}

type CreateProductRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description" binding:"required"`
	CategoryID  int    `json:"category_id" form:"category_id" binding:"required"`
	BrandID     *int   `json:"brand_id" form:"brand_id"`
	Price       int    `json:"price" form:"price" binding:"required"`
	Stock       int    `json:"stock" form:"stock" binding:"required"`
	IsActive    bool   `json:"is_active" form:"is_active"`
	ImageURL    string `json:"image_url" form:"image_url"`
}

type UpdateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	CategoryID  int    `json:"category_id" form:"category_id"`
	BrandID     *int   `json:"brand_id" form:"brand_id"`
	Price       int    `json:"price" form:"price"`
	Stock       *int   `json:"stock" form:"stock"`
	IsActive    *bool  `json:"is_active" form:"is_active"`
	ImageURL    string `json:"image_url" form:"image_url"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type DirectItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	ShippingAddressID int                 `json:"shipping_address_id" binding:"required"`
	ShippingFee       int                 `json:"shipping_fee"`
	DiscountAmount    int                 `json:"discount_amount"`
	PaymentMethod     string              `json:"payment_method" binding:"omitempty,oneof=cod vnpay"`
	DirectItems       []DirectItemRequest `json:"direct_items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

type CreateAddressRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

type CartSummary struct {
	TotalItems  int `json:"total_items"`
	TotalAmount int `json:"total_amount"`
}

type CheckoutResponse struct {
	OrderID     int    `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Subtotal    int    `json:"subtotal"`
	ShippingFee int    `json:"shipping_fee"`
	Discount    int    `json:"discount_amount"`
	Total       int    `json:"total_amount"`
}
