package repositories

import (
	"context"
	"errors"
	"fmt"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db DB
}

func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByOrderNumber looks up the payment for an order reference together
// with the order's current status.
func (r *PaymentRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Payment, models.OrderStatus, error) {
	var p models.Payment
	var status models.OrderStatus
	err := r.db.QueryRow(ctx,
		`SELECT p.id, p.order_id, p.amount, p.method, p.status, p.transaction_no, p.bank_code,
		        p.paid_at, p.created_at, p.updated_at, o.status
		 FROM payments p
		 JOIN orders o ON p.order_id = o.id
		 WHERE o.order_number = $1`, orderNumber,
	).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionNo, &p.BankCode,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", models.ErrPaymentNotFound
		}
		return nil, "", fmt.Errorf("select payment: %w", err)
	}
	return &p, status, nil
}

// MarkCompleted records a confirmed gateway payment and drives a pending
// order to processing, both in one transaction. An order already past
// pending keeps its status.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, paymentID, orderID int, transactionNo, bankCode string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	tag, err := tx.Exec(ctx,
		`UPDATE payments SET status = $2, transaction_no = $3, bank_code = $4, paid_at = $5, updated_at = $5
		 WHERE id = $1 AND status = $6`,
		paymentID, models.PaymentStatusCompleted, transactionNo, bankCode, now, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("complete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already completed by a duplicate callback.
		return nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		orderID, models.OrderStatusProcessing, now, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("advance order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}
