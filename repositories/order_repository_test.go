package repositories

import (
	"context"
	"testing"
	"time"

	"tech-store/models"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *OrderRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewOrderRepository(mock)
}

func sampleOrder() (*models.Order, *models.Payment) {
	order := &models.Order{
		OrderNumber:     "ORD-AB12CD34",
		UserID:          42,
		AddressID:       9,
		ShippingAddress: "12 Nguyen Hue, Ho Chi Minh City",
		Subtotal:        250000,
		ShippingFee:     30000,
		DiscountAmount:  0,
		TotalAmount:     280000,
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodCOD,
		Items: []models.OrderItem{
			{ProductID: 7, ProductName: "Keyboard", Quantity: 2, UnitPrice: 100000, Subtotal: 200000},
			{ProductID: 8, ProductName: "Mouse", Quantity: 1, UnitPrice: 50000, Subtotal: 50000},
		},
	}
	payment := &models.Payment{
		Amount: 280000,
		Method: models.PaymentMethodCOD,
		Status: models.PaymentStatusPending,
	}
	return order, payment
}

func TestOrderRepositoryPlaceOrder(t *testing.T) {
	mock, repo := newOrderRepoMock(t)
	order, payment := sampleOrder()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(2, pgxmock.AnyArg(), 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(1, pgxmock.AnyArg(), 8).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(order.OrderNumber, 42, 9, order.ShippingAddress, 250000, 30000, 0, 280000,
			models.OrderStatusPending, models.PaymentMethodCOD, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(555, now, now))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(555, 7, "Keyboard", 2, 100000, 200000).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(555, 8, "Mouse", 1, 50000, 50000).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(555, 280000, models.PaymentMethodCOD, models.PaymentStatusPending, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(77, now, now))
	mock.ExpectExec(`DELETE FROM cart_items WHERE cart_id`).
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`UPDATE carts SET total_items = 0`).
		WithArgs(3, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.PlaceOrder(context.Background(), order, payment, 3)
	require.NoError(t, err)
	assert.Equal(t, 555, order.ID)
	assert.Equal(t, 555, order.Items[0].OrderID)
	assert.Equal(t, 555, payment.OrderID)
	assert.Equal(t, 77, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryPlaceOrderDirectSkipsCartClear(t *testing.T) {
	mock, repo := newOrderRepoMock(t)
	order, payment := sampleOrder()
	order.Items = order.Items[:1]
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(2, pgxmock.AnyArg(), 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(order.OrderNumber, 42, 9, order.ShippingAddress, 250000, 30000, 0, 280000,
			models.OrderStatusPending, models.PaymentMethodCOD, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(556, now, now))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(556, 7, "Keyboard", 2, 100000, 200000).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(556, 280000, models.PaymentMethodCOD, models.PaymentStatusPending, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(78, now, now))
	mock.ExpectCommit()

	require.NoError(t, repo.PlaceOrder(context.Background(), order, payment, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryPlaceOrderRollsBackOnStockShortfall(t *testing.T) {
	mock, repo := newOrderRepoMock(t)
	order, payment := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(2, pgxmock.AnyArg(), 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// Second item loses the race for the last unit.
	mock.ExpectExec(`UPDATE products SET stock = stock -`).
		WithArgs(1, pgxmock.AnyArg(), 8).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.PlaceOrder(context.Background(), order, payment, 3)
	assert.ErrorIs(t, err, models.ErrProductUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newOrderRepoMock(t)

	mock.ExpectQuery(`SELECT id, order_number`).
		WithArgs(999).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpdateStatusConditional(t *testing.T) {
	mock, repo := newOrderRepoMock(t)

	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(1, models.OrderStatusPending, models.OrderStatusProcessing, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 1, models.OrderStatusPending, models.OrderStatusProcessing))

	// Someone else already moved the order.
	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(1, models.OrderStatusPending, models.OrderStatusCancelled, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 1, models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryListWithStatusFilter(t *testing.T) {
	mock, repo := newOrderRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE status`).
		WithArgs(models.OrderStatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, order_number`).
		WithArgs(models.OrderStatusPending, 10, 0).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "order_number", "user_id", "address_id", "shipping_address", "subtotal",
				"shipping_fee", "discount_amount", "total_amount", "status", "payment_method",
				"created_at", "updated_at"}).
			AddRow(1, "ORD-AB12CD34", 42, 9, "12 Nguyen Hue, Ho Chi Minh City", 250000,
				30000, 0, 280000, models.OrderStatusPending, models.PaymentMethodCOD, now, now))

	orders, total, err := repo.List(context.Background(), models.OrderStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-AB12CD34", orders[0].OrderNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
