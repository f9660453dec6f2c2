package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"tech-store/models"

	"github.com/google/uuid"
)

type AddressStore interface {
	GetByID(ctx context.Context, id int) (*models.Address, error)
}

// CheckoutStore commits a validated checkout atomically.
type CheckoutStore interface {
	PlaceOrder(ctx context.Context, order *models.Order, payment *models.Payment, clearCartID int) error
}

type Mailer interface {
	SendOrderConfirmationEmail(toEmail, orderNumber string, total int) error
}

// CheckoutService converts a cart or a direct-buy item list into an
// immutable order. Prices and stock are validated against the live catalog
// at this moment; nothing the client sent and nothing cached in the cart is
// trusted for money.
type CheckoutService struct {
	catalog   CatalogReader
	carts     CartStore
	orders    CheckoutStore
	addresses AddressStore
	mailer    Mailer
}

func NewCheckoutService(catalog CatalogReader, carts CartStore, orders CheckoutStore, addresses AddressStore, mailer Mailer) *CheckoutService {
	return &CheckoutService{
		catalog:   catalog,
		carts:     carts,
		orders:    orders,
		addresses: addresses,
		mailer:    mailer,
	}
}

type sourceLine struct {
	ProductID int
	Quantity  int
}

// Checkout validates and places the order. On any validation failure no
// order exists and the cart is untouched; persistence failures roll back
// inside PlaceOrder.
func (s *CheckoutService) Checkout(ctx context.Context, userID int, userEmail string, req models.CheckoutRequest) (*models.Order, error) {
	address, err := s.addresses.GetByID(ctx, req.ShippingAddressID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("shipping address %d: %w", req.ShippingAddressID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("address lookup: %w", models.ErrDependencyUnavailable)
	}
	if address.UserID != userID {
		return nil, models.ErrForbidden
	}

	if req.ShippingFee < 0 || req.DiscountAmount < 0 {
		return nil, models.ErrInvalidTotal
	}

	source, clearCartID, err := s.resolveSource(ctx, userID, req.DirectItems)
	if err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return nil, models.ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(source))
	subtotal := 0
	for _, line := range source {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, models.ErrProductUnavailable)
			}
			return nil, fmt.Errorf("catalog lookup for product %d: %w", line.ProductID, models.ErrDependencyUnavailable)
		}
		if !product.IsActive || product.Stock < line.Quantity {
			return nil, fmt.Errorf("%s: %w", product.Name, models.ErrProductUnavailable)
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    line.Quantity * product.Price,
		})
		subtotal += line.Quantity * product.Price
	}

	total := subtotal + req.ShippingFee - req.DiscountAmount
	if total < 0 {
		return nil, models.ErrInvalidTotal
	}

	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		AddressID:       address.ID,
		ShippingAddress: address.FullAddress(),
		Subtotal:        subtotal,
		ShippingFee:     req.ShippingFee,
		DiscountAmount:  req.DiscountAmount,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   method,
		Items:           items,
	}

	payment := &models.Payment{
		Amount: total,
		Method: method,
		Status: models.PaymentStatusPending,
	}

	if err := s.orders.PlaceOrder(ctx, order, payment, clearCartID); err != nil {
		return nil, err
	}

	if s.mailer != nil && userEmail != "" {
		go func(email, number string, amount int) {
			if err := s.mailer.SendOrderConfirmationEmail(email, number, amount); err != nil {
				log.Printf("Failed to send order confirmation for %s: %v", number, err)
			}
		}(userEmail, order.OrderNumber, order.TotalAmount)
	}

	return order, nil
}

// resolveSource picks the checkout source: explicit direct-buy items bypass
// the cart entirely and never touch it; otherwise the whole current cart is
// consumed and will be cleared on success.
func (s *CheckoutService) resolveSource(ctx context.Context, userID int, direct []models.DirectItemRequest) ([]sourceLine, int, error) {
	if len(direct) > 0 {
		lines := make([]sourceLine, 0, len(direct))
		for _, item := range direct {
			if item.Quantity <= 0 {
				return nil, 0, models.ErrInvalidQuantity
			}
			lines = append(lines, sourceLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		return lines, 0, nil
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("load cart for user %d: %w", userID, err)
	}
	cartLines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("load cart lines: %w", err)
	}

	lines := make([]sourceLine, 0, len(cartLines))
	for _, line := range cartLines {
		lines = append(lines, sourceLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return lines, cart.ID, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
