package services

import (
	"context"
	"fmt"
	"tech-store/models"
)

type OrderStore interface {
	GetByID(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error)
	List(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error
}

// OrderService enforces the order status state machine:
// pending -> processing -> completed, with cancellation allowed from
// pending (owner or admin) and processing (admin only).
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) GetOrder(ctx context.Context, id, requesterID int, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, models.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

func (s *OrderService) ListOrders(ctx context.Context, status string, page, limit int) ([]models.Order, int, error) {
	filter := models.OrderStatus(status)
	if status != "" && !filter.Valid() {
		return nil, 0, fmt.Errorf("status %q: %w", status, models.ErrInvalidTransition)
	}
	return s.orders.List(ctx, filter, page, limit)
}

// UpdateStatus is the admin transition. The conditional update in the store
// keeps a concurrent transition from being overwritten.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("status %q: %w", target, models.ErrInvalidTransition)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, target, models.ErrInvalidTransition)
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, target); err != nil {
		return nil, err
	}

	order.Status = target
	return order, nil
}

// Cancel handles self-service and admin cancellation. Owners may only
// cancel while the order is still pending; admins also from processing.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID int, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, models.ErrForbidden
	}

	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, models.OrderStatusCancelled, models.ErrInvalidTransition)
	}
	if !isAdmin && order.Status != models.OrderStatusPending {
		return nil, models.ErrForbidden
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, models.OrderStatusCancelled); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	return order, nil
}
