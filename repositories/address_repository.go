package repositories

import (
	"context"
	"errors"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
)

type AddressRepository struct {
	db DB
}

func NewAddressRepository(db DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) GetByID(ctx context.Context, id int) (*models.Address, error) {
	var a models.Address
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, recipient, phone, street, city, is_default, created_at
		 FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Street, &a.City, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID int) ([]models.Address, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, recipient, phone, street, city, is_default, created_at
		 FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Street, &a.City,
			&a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO addresses (user_id, recipient, phone, street, city, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		address.UserID, address.Recipient, address.Phone, address.Street, address.City,
		address.IsDefault, time.Now(),
	).Scan(&address.ID, &address.CreatedAt)
}
