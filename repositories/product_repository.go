package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

const productCacheTTL = 5 * time.Minute

// ProductRepository is the catalog store and the catalog reader the cart
// and checkout services validate against.
type ProductRepository struct {
	db    DB
	cache *redis.Client
}

func NewProductRepository(db DB, cache *redis.Client) *ProductRepository {
	return &ProductRepository{db: db, cache: cache}
}

func (r *ProductRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, is_active, created_at FROM categories WHERE is_active = true ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *ProductRepository) GetAllProducts(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, description, category_id, brand_id, price, stock, is_active, image_url, created_at, updated_at
	          FROM products WHERE is_active = true ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.BrandID,
			&p.Price, &p.Stock, &p.IsActive, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// GetProduct returns the current catalog row for a product, including
// inactive ones; callers decide what an inactive product means for them.
// Always reads the database — cart and checkout validation must never see
// a cached price or stock value.
func (r *ProductRepository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT id, name, description, category_id, brand_id, price, stock, is_active, image_url, created_at, updated_at
	          FROM products WHERE id = $1`

	var p models.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.BrandID,
		&p.Price, &p.Stock, &p.IsActive, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

// GetProductDetail is the storefront read path: cache-backed with a short
// TTL, so displayed stock may lag the catalog briefly.
func (r *ProductRepository) GetProductDetail(ctx context.Context, id int) (*models.Product, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, productCacheKey(id)).Result(); err == nil {
			var p models.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			if err := r.cache.Set(ctx, productCacheKey(id), data, productCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache product %d: %v", id, err)
			}
		}
	}

	return p, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, category_id, brand_id, price, stock, is_active, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.CategoryID, product.BrandID,
		product.Price, product.Stock, product.IsActive, product.ImageURL, now, now,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, brand_id = $5, price = $6,
		    stock = $7, is_active = $8, image_url = $9, updated_at = $10
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.CategoryID, product.BrandID,
		product.Price, product.Stock, product.IsActive, product.ImageURL, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	r.invalidateCache(ctx, product.ID)
	return nil
}

// DeleteProduct deactivates the product; cart recompute prunes its lines on
// the next read, existing order lines keep their snapshots.
func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET is_active = false, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

func (r *ProductRepository) invalidateCache(ctx context.Context, id int) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		log.Printf("Failed to invalidate product cache %d: %v", id, err)
	}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}
