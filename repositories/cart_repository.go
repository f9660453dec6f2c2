package repositories

import (
	"context"
	"errors"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
)

// CartRepository persists one cart per user plus its lines. line_total is a
// generated column, so it can never drift from quantity * price_at_time.
type CartRepository struct {
	db DB
}

func NewCartRepository(db DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// touch. The upsert keeps concurrent first touches from racing.
func (r *CartRepository) GetOrCreateCart(ctx context.Context, userID int) (*models.Cart, error) {
	query := `
		INSERT INTO carts (user_id, total_items, total_amount, created_at, updated_at)
		VALUES ($1, 0, 0, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, total_items, total_amount, created_at, updated_at
	`

	var cart models.Cart
	err := r.db.QueryRow(ctx, query, userID, time.Now()).Scan(
		&cart.ID, &cart.UserID, &cart.TotalItems, &cart.TotalAmount, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) GetLines(ctx context.Context, cartID int) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.image_url,
		       ci.quantity, ci.price_at_time, ci.line_total, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ImageURL,
			&item.Quantity, &item.PriceAtTime, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetLine loads a single line with its cart's owner, so callers can check
// ownership before mutating.
func (r *CartRepository) GetLine(ctx context.Context, lineID int) (*models.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, c.user_id, ci.product_id,
		       ci.quantity, ci.price_at_time, ci.line_total, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN carts c ON ci.cart_id = c.id
		WHERE ci.id = $1
	`

	var item models.CartItem
	err := r.db.QueryRow(ctx, query, lineID).Scan(
		&item.ID, &item.CartID, &item.UserID, &item.ProductID,
		&item.Quantity, &item.PriceAtTime, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpsertLine adds a line or increments the existing one for the product in
// a single statement, refreshing price_at_time to the given catalog price.
// Concurrent adds for the same product cannot lose updates.
func (r *CartRepository) UpsertLine(ctx context.Context, cartID, productID, quantity, price int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, price_at_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    price_at_time = EXCLUDED.price_at_time,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, cart_id, product_id, quantity, price_at_time, line_total, created_at, updated_at
	`

	var item models.CartItem
	err := r.db.QueryRow(ctx, query, cartID, productID, quantity, price, time.Now()).Scan(
		&item.ID, &item.CartID, &item.ProductID,
		&item.Quantity, &item.PriceAtTime, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) SetLineQuantity(ctx context.Context, lineID, quantity, price int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, price_at_time = $3, updated_at = $4 WHERE id = $1`,
		lineID, quantity, price, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartRepository) DeleteLine(ctx context.Context, lineID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteLinesByProducts prunes lines whose products are gone or inactive.
func (r *CartRepository) DeleteLinesByProducts(ctx context.Context, cartID int, productIDs []int) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = ANY($2)`,
		cartID, productIDs)
	return err
}

// UpdateCartTotals writes the cached aggregates. Values must be derived
// from the current lines, never incremented.
func (r *CartRepository) UpdateCartTotals(ctx context.Context, cartID, totalItems, totalAmount int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE carts SET total_items = $2, total_amount = $3, updated_at = $4 WHERE id = $1`,
		cartID, totalItems, totalAmount, time.Now())
	return err
}
