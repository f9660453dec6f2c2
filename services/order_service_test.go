package services

import (
	"context"
	"testing"

	"tech-store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders      map[int]*models.Order
	updateCalls int
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (f *fakeOrderStore) List(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error {
	f.updateCalls++
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return models.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func orderFixture() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int]*models.Order{
		1: {ID: 1, UserID: 42, Status: models.OrderStatusPending},
		2: {ID: 2, UserID: 42, Status: models.OrderStatusProcessing},
		3: {ID: 3, UserID: 7, Status: models.OrderStatusCompleted},
	}}
}

func TestOrderServiceGetOrderOwnership(t *testing.T) {
	svc := NewOrderService(orderFixture())

	order, err := svc.GetOrder(context.Background(), 1, 42, false)
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)

	_, err = svc.GetOrder(context.Background(), 3, 42, false)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// Admin sees everything.
	_, err = svc.GetOrder(context.Background(), 3, 42, true)
	assert.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), 99, 42, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderServiceListOrdersStatusFilter(t *testing.T) {
	svc := NewOrderService(orderFixture())

	orders, total, err := svc.ListOrders(context.Background(), "pending", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, orders, 1)

	_, _, err = svc.ListOrders(context.Background(), "shipped", 1, 10)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, total, err = svc.ListOrders(context.Background(), "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	store := orderFixture()
	svc := NewOrderService(store)

	order, err := svc.UpdateStatus(context.Background(), 1, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	order, err = svc.UpdateStatus(context.Background(), 1, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
}

func TestOrderServiceUpdateStatusRejectsIllegalMoves(t *testing.T) {
	store := orderFixture()
	svc := NewOrderService(store)

	cases := []struct {
		id     int
		target models.OrderStatus
	}{
		{1, models.OrderStatusCompleted},  // pending cannot skip processing
		{3, models.OrderStatusProcessing}, // completed is terminal
		{3, models.OrderStatusCancelled},
		{1, models.OrderStatus("shipped")},
		{2, models.OrderStatusPending}, // no going backwards
	}
	for _, tc := range cases {
		_, err := svc.UpdateStatus(context.Background(), tc.id, tc.target)
		assert.ErrorIs(t, err, models.ErrInvalidTransition, "order %d -> %s", tc.id, tc.target)
	}
	assert.Zero(t, store.updateCalls)
}

func TestOrderServiceCancelByOwner(t *testing.T) {
	store := orderFixture()
	svc := NewOrderService(store)

	order, err := svc.Cancel(context.Background(), 1, 42, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	// Owners cannot cancel once the order is processing.
	_, err = svc.Cancel(context.Background(), 2, 42, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, models.OrderStatusProcessing, store.orders[2].Status)
}

func TestOrderServiceCancelByAdmin(t *testing.T) {
	store := orderFixture()
	svc := NewOrderService(store)

	order, err := svc.Cancel(context.Background(), 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	// Even admins cannot cancel a completed order.
	_, err = svc.Cancel(context.Background(), 3, 1, true)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrderServiceCancelForeignOrder(t *testing.T) {
	svc := NewOrderService(orderFixture())

	_, err := svc.Cancel(context.Background(), 3, 42, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
}
