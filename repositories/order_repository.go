package repositories

import (
	"context"
	"errors"
	"fmt"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// PlaceOrder commits the checkout in one transaction: conditional stock
// decrements, the order row, its items, the payment row, and (for cart
// checkouts) clearing the cart. Any failure rolls back everything.
//
// The stock decrement is guarded by `stock >= quantity AND is_active`, so
// two concurrent checkouts can never both take the last unit.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.Order, payment *models.Payment, clearCartID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	for _, item := range order.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = $2
			 WHERE id = $3 AND is_active = true AND stock >= $1`,
			item.Quantity, now, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("product %d: %w", item.ProductID, models.ErrProductUnavailable)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (order_number, user_id, address_id, shipping_address, subtotal,
		                     shipping_fee, discount_amount, total_amount, status, payment_method,
		                     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING id, created_at, updated_at`,
		order.OrderNumber, order.UserID, order.AddressID, order.ShippingAddress, order.Subtotal,
		order.ShippingFee, order.DiscountAmount, order.TotalAmount, order.Status, order.PaymentMethod,
		now,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	payment.OrderID = order.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO payments (order_id, amount, method, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id, created_at, updated_at`,
		payment.OrderID, payment.Amount, payment.Method, payment.Status, now,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	if clearCartID > 0 {
		if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, clearCartID); err != nil {
			return fmt.Errorf("clear cart %d: %w", clearCartID, err)
		}
		if _, err = tx.Exec(ctx,
			`UPDATE carts SET total_items = 0, total_amount = 0, updated_at = $2 WHERE id = $1`,
			clearCartID, now); err != nil {
			return fmt.Errorf("reset cart totals %d: %w", clearCartID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx,
		`SELECT id, order_number, user_id, address_id, shipping_address, subtotal,
		        shipping_fee, discount_amount, total_amount, status, payment_method,
		        created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.ShippingAddress, &o.Subtotal,
		&o.ShippingFee, &o.DiscountAmount, &o.TotalAmount, &o.Status, &o.PaymentMethod,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return &o, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID, page, limit int) ([]models.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, order_number, user_id, address_id, shipping_address, subtotal,
		        shipping_fee, discount_amount, total_amount, status, payment_method,
		        created_at, updated_at
		 FROM orders WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	return orders, total, err
}

// List is the admin view, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	where := ""
	countArgs := []any{}
	if status != "" {
		where = " WHERE status = $1"
		countArgs = append(countArgs, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, order_number, user_id, address_id, shipping_address, subtotal,
	                 shipping_fee, discount_amount, total_amount, status, payment_method,
	                 created_at, updated_at
	          FROM orders` + where
	args := append([]any{}, countArgs...)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	return orders, total, err
}

// UpdateStatus moves an order from one status to another with a conditional
// update; a concurrent transition makes the update match zero rows.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, time.Now())
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.ShippingAddress, &o.Subtotal,
			&o.ShippingFee, &o.DiscountAmount, &o.TotalAmount, &o.Status, &o.PaymentMethod,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
