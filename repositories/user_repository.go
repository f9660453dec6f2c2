package repositories

import (
	"context"
	"errors"
	"tech-store/models"
	"time"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Email, user.Password, user.Role, time.Now(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password, role, created_at, updated_at FROM users WHERE email = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, email, password, role, created_at, updated_at FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context, page, limit int) ([]models.UserWithProfile, int, error) {
	offset := (page - 1) * limit

	var totalCount int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			u.id, u.email, u.role, u.created_at,
			COALESCE(up.full_name, '') as full_name,
			COALESCE(up.phone, '') as phone
		FROM users u
		LEFT JOIN user_profiles up ON u.id = up.user_id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []models.UserWithProfile{}
	for rows.Next() {
		var user models.UserWithProfile
		if err := rows.Scan(&user.ID, &user.Email, &user.Role, &user.CreatedAt,
			&user.FullName, &user.Phone); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	return users, totalCount, rows.Err()
}

func (r *UserRepository) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		profile.UserID, profile.FullName, profile.Phone, time.Now(),
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *UserRepository) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, full_name, phone, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	profile := &models.UserProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.FullName, &profile.Phone,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET full_name = $1, phone = $2, updated_at = $3
		WHERE user_id = $4
	`

	tag, err := r.db.Exec(ctx, query,
		profile.FullName, profile.Phone, time.Now(), profile.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetUserWithProfile(ctx context.Context, userID int) (*models.UserWithProfile, error) {
	query := `
		SELECT
			u.id, u.email, u.role, u.created_at,
			COALESCE(up.full_name, '') as full_name,
			COALESCE(up.phone, '') as phone
		FROM users u
		LEFT JOIN user_profiles up ON u.id = up.user_id
		WHERE u.id = $1
	`

	user := &models.UserWithProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Email, &user.Role, &user.CreatedAt, &user.FullName, &user.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
