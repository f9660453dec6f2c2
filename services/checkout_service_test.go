package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tech-store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddressStore struct {
	addresses map[int]*models.Address
}

func (f *fakeAddressStore) GetByID(ctx context.Context, id int) (*models.Address, error) {
	a, ok := f.addresses[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeCheckoutStore struct {
	placed      *models.Order
	payment     *models.Payment
	clearCartID int
	err         error
}

func (f *fakeCheckoutStore) PlaceOrder(ctx context.Context, order *models.Order, payment *models.Payment, clearCartID int) error {
	if f.err != nil {
		return f.err
	}
	f.placed = order
	f.payment = payment
	f.clearCartID = clearCartID
	order.ID = 555
	return nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	calls chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{calls: make(chan struct{}, 1)}
}

func (f *fakeMailer) SendOrderConfirmationEmail(toEmail, orderNumber string, total int) error {
	f.mu.Lock()
	f.sent = append(f.sent, orderNumber)
	f.mu.Unlock()
	f.calls <- struct{}{}
	return nil
}

func checkoutFixture() (*fakeCatalog, *fakeCartStore, *fakeCheckoutStore, *fakeAddressStore, *fakeMailer, *CheckoutService) {
	catalog := &fakeCatalog{products: map[int]*models.Product{
		1: activeProduct(1, 100000, 10),
		2: activeProduct(2, 50000, 3),
	}}
	carts := newFakeCartStore(42)
	carts.lines = []models.CartItem{
		{ID: 100, CartID: 1, UserID: 42, ProductID: 1, Quantity: 2, PriceAtTime: 90000},
		{ID: 101, CartID: 1, UserID: 42, ProductID: 2, Quantity: 1, PriceAtTime: 50000},
	}
	orders := &fakeCheckoutStore{}
	addresses := &fakeAddressStore{addresses: map[int]*models.Address{
		9: {ID: 9, UserID: 42, Street: "12 Nguyen Hue", City: "Ho Chi Minh City"},
	}}
	mailer := newFakeMailer()
	svc := NewCheckoutService(catalog, carts, orders, addresses, mailer)
	return catalog, carts, orders, addresses, mailer, svc
}

func TestCheckoutFromCart(t *testing.T) {
	_, _, orders, _, mailer, svc := checkoutFixture()

	req := models.CheckoutRequest{
		ShippingAddressID: 9,
		ShippingFee:       30000,
		DiscountAmount:    20000,
	}
	order, err := svc.Checkout(context.Background(), 42, "buyer@example.com", req)
	require.NoError(t, err)

	// Live prices win over cart snapshots: 2*100000 + 1*50000.
	assert.Equal(t, 250000, order.Subtotal)
	assert.Equal(t, 260000, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 100000, order.Items[0].UnitPrice)

	require.NotNil(t, orders.payment)
	assert.Equal(t, order.TotalAmount, orders.payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, orders.payment.Status)
	assert.Equal(t, 1, orders.clearCartID)

	select {
	case <-mailer.calls:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not sent")
	}
	mailer.mu.Lock()
	assert.Equal(t, []string{order.OrderNumber}, mailer.sent)
	mailer.mu.Unlock()
}

func TestCheckoutPlacedOrderKeepsPriceSnapshots(t *testing.T) {
	catalog, _, orders, _, _, svc := checkoutFixture()

	order, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9})
	require.NoError(t, err)

	// The catalog moves on after the order is placed.
	catalog.products[1].Price = 999999
	catalog.products[2].Price = 1

	placed := orders.placed
	require.NotNil(t, placed)
	assert.Equal(t, 250000, placed.Subtotal)
	assert.Equal(t, 250000, placed.TotalAmount)
	assert.Equal(t, 100000, placed.Items[0].UnitPrice)
	assert.Equal(t, 200000, placed.Items[0].Subtotal)
	assert.Equal(t, 50000, placed.Items[1].UnitPrice)
	assert.Equal(t, order.TotalAmount, orders.payment.Amount)
}

func TestCheckoutDirectItemsBypassCart(t *testing.T) {
	_, carts, orders, _, _, svc := checkoutFixture()

	req := models.CheckoutRequest{
		ShippingAddressID: 9,
		PaymentMethod:     models.PaymentMethodVNPay,
		DirectItems:       []models.DirectItemRequest{{ProductID: 2, Quantity: 3}},
	}
	order, err := svc.Checkout(context.Background(), 42, "", req)
	require.NoError(t, err)

	assert.Equal(t, 150000, order.Subtotal)
	assert.Equal(t, models.PaymentMethodVNPay, order.PaymentMethod)
	// Direct buy never consumes the cart.
	assert.Zero(t, orders.clearCartID)
	assert.Len(t, carts.lines, 2)
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, carts, _, _, _, svc := checkoutFixture()
	carts.lines = nil

	_, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9})
	assert.ErrorIs(t, err, models.ErrEmptyOrder)
}

func TestCheckoutAddressValidation(t *testing.T) {
	_, _, _, _, _, svc := checkoutFixture()

	_, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 77})
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Someone else's address.
	_, err = svc.Checkout(context.Background(), 11, "", models.CheckoutRequest{ShippingAddressID: 9})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCheckoutInvalidTotals(t *testing.T) {
	_, _, orders, _, _, svc := checkoutFixture()

	_, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9, ShippingFee: -1})
	assert.ErrorIs(t, err, models.ErrInvalidTotal)

	_, err = svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9, DiscountAmount: -1})
	assert.ErrorIs(t, err, models.ErrInvalidTotal)

	// Discount bigger than order value.
	_, err = svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9, DiscountAmount: 10000000})
	assert.ErrorIs(t, err, models.ErrInvalidTotal)

	assert.Nil(t, orders.placed)
}

func TestCheckoutStockShortfall(t *testing.T) {
	catalog, _, orders, _, _, svc := checkoutFixture()
	catalog.products[1].Stock = 1

	_, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9})
	assert.ErrorIs(t, err, models.ErrProductUnavailable)
	assert.Nil(t, orders.placed)
}

func TestCheckoutProductVanished(t *testing.T) {
	catalog, _, _, _, _, svc := checkoutFixture()
	delete(catalog.products, 2)

	_, err := svc.Checkout(context.Background(), 42, "", models.CheckoutRequest{ShippingAddressID: 9})
	assert.ErrorIs(t, err, models.ErrProductUnavailable)
}

func TestCheckoutDirectItemBadQuantity(t *testing.T) {
	_, _, _, _, _, svc := checkoutFixture()

	req := models.CheckoutRequest{
		ShippingAddressID: 9,
		DirectItems:       []models.DirectItemRequest{{ProductID: 1, Quantity: 0}},
	}
	_, err := svc.Checkout(context.Background(), 42, "", req)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
}

func TestCheckoutStoreFailurePropagates(t *testing.T) {
	_, _, orders, _, mailer, svc := checkoutFixture()
	orders.err = errors.New("deadlock detected")

	_, err := svc.Checkout(context.Background(), 42, "buyer@example.com", models.CheckoutRequest{ShippingAddressID: 9})
	require.Error(t, err)

	select {
	case <-mailer.calls:
		t.Fatal("email sent for a failed checkout")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := newOrderNumber()
		assert.Len(t, n, 12)
		assert.Equal(t, "ORD-", n[:4])
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
