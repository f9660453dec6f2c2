package services

import (
	"context"
	"errors"
	"fmt"
	"tech-store/models"
)

// CatalogReader is the cart and checkout view of the product catalog.
type CatalogReader interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

// CartStore persists carts and their lines.
type CartStore interface {
	GetOrCreateCart(ctx context.Context, userID int) (*models.Cart, error)
	GetLines(ctx context.Context, cartID int) ([]models.CartItem, error)
	GetLine(ctx context.Context, lineID int) (*models.CartItem, error)
	UpsertLine(ctx context.Context, cartID, productID, quantity, price int) (*models.CartItem, error)
	SetLineQuantity(ctx context.Context, lineID, quantity, price int) error
	DeleteLine(ctx context.Context, lineID int) error
	DeleteLinesByProducts(ctx context.Context, cartID int, productIDs []int) error
	UpdateCartTotals(ctx context.Context, cartID, totalItems, totalAmount int) error
}

// CartService keeps each cart's cached totals consistent with its lines and
// prunes lines whose products have disappeared from the catalog.
type CartService struct {
	catalog CatalogReader
	carts   CartStore
}

func NewCartService(catalog CatalogReader, carts CartStore) *CartService {
	return &CartService{catalog: catalog, carts: carts}
}

// GetCart returns the user's cart after a recompute: lines referencing
// inactive or deleted products are dropped and totals are re-derived.
// Prices snapshotted on the remaining lines are left as they are.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart for user %d: %w", userID, err)
	}

	if err := s.recompute(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// recompute resolves every line against the live catalog, then prunes and
// re-totals. All lookups happen before any write, so a catalog failure
// leaves the cart untouched.
func (s *CartService) recompute(ctx context.Context, cart *models.Cart) error {
	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("load cart lines: %w", err)
	}

	kept := make([]models.CartItem, 0, len(lines))
	var dead []int
	for _, line := range lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				dead = append(dead, line.ProductID)
				continue
			}
			return fmt.Errorf("catalog lookup for product %d: %w", line.ProductID, models.ErrDependencyUnavailable)
		}
		if !product.IsActive {
			dead = append(dead, line.ProductID)
			continue
		}
		kept = append(kept, line)
	}

	if len(dead) > 0 {
		if err := s.carts.DeleteLinesByProducts(ctx, cart.ID, dead); err != nil {
			return fmt.Errorf("prune cart lines: %w", err)
		}
	}

	totalItems, totalAmount := sumLines(kept)
	if err := s.carts.UpdateCartTotals(ctx, cart.ID, totalItems, totalAmount); err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}

	cart.Items = kept
	cart.TotalItems = totalItems
	cart.TotalAmount = totalAmount
	return nil
}

// AddItem adds a product to the cart or increments the existing line. The
// line's price snapshot is refreshed to the current catalog price. Stock is
// checked against the resulting line quantity, existing amount included, so
// the cart never holds more of a product than the catalog can fulfil.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart for user %d: %w", userID, err)
	}

	lines, err := s.carts.GetLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	existing := 0
	for _, line := range lines {
		if line.ProductID == productID {
			existing = line.Quantity
			break
		}
	}
	if !product.IsActive || product.Stock < existing+quantity {
		return nil, fmt.Errorf("%s: %w", product.Name, models.ErrProductUnavailable)
	}

	line, err := s.carts.UpsertLine(ctx, cart.ID, productID, quantity, product.Price)
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	line.ProductName = product.Name
	line.ImageURL = product.ImageURL

	if err := s.refreshTotals(ctx, cart.ID); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateItem sets a line's quantity; zero or less removes the line. A
// positive quantity also refreshes the price snapshot.
func (s *CartService) UpdateItem(ctx context.Context, userID, lineID, quantity int) (*models.Cart, error) {
	line, err := s.carts.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.UserID != userID {
		return nil, models.ErrForbidden
	}

	if quantity <= 0 {
		if err := s.carts.DeleteLine(ctx, lineID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID)
	}

	product, err := s.lookupProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive || product.Stock < quantity {
		return nil, fmt.Errorf("%s: %w", product.Name, models.ErrProductUnavailable)
	}

	if err := s.carts.SetLineQuantity(ctx, lineID, quantity, product.Price); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, lineID int) (*models.Cart, error) {
	line, err := s.carts.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.UserID != userID {
		return nil, models.ErrForbidden
	}

	if err := s.carts.DeleteLine(ctx, lineID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) lookupProduct(ctx context.Context, productID int) (*models.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("catalog lookup for product %d: %w", productID, models.ErrDependencyUnavailable)
	}
	return product, nil
}

// refreshTotals re-derives the cached aggregates from the stored lines.
func (s *CartService) refreshTotals(ctx context.Context, cartID int) error {
	lines, err := s.carts.GetLines(ctx, cartID)
	if err != nil {
		return fmt.Errorf("load cart lines: %w", err)
	}
	totalItems, totalAmount := sumLines(lines)
	if err := s.carts.UpdateCartTotals(ctx, cartID, totalItems, totalAmount); err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}
	return nil
}

func sumLines(lines []models.CartItem) (totalItems, totalAmount int) {
	for _, line := range lines {
		totalItems += line.Quantity
		totalAmount += line.Quantity * line.PriceAtTime
	}
	return totalItems, totalAmount
}
