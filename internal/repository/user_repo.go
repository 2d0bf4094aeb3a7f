package repository

import (
	"context"
	"errors"
	"fmt"

	"wellsync/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, phone, password_hash, name, type, latitude, longitude, street, blocked_by, is_verified, created_at, updated_at`

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLocation(ctx context.Context, id string, latitude, longitude float64, street string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, phone, password_hash, name, type, latitude, longitude, street, blocked_by, is_verified, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, sql,
		user.ID, user.Phone, user.PasswordHash, user.Name, user.Type,
		user.Latitude, user.Longitude, user.Street, user.BlockedBy,
		user.IsVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Phone, &user.PasswordHash, &user.Name, &user.Type,
		&user.Latitude, &user.Longitude, &user.Street, &user.BlockedBy,
		&user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, err
	}
	return user, nil
}

// FindByPhone retrieves a user by their phone number
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, sql, phone))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// MarkVerified flips the user's is_verified flag after a successful OTP check
func (r *userRepository) MarkVerified(ctx context.Context, id string) error {
	sql := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateLocation updates the user's coordinates and street
func (r *userRepository) UpdateLocation(ctx context.Context, id string, latitude, longitude float64, street string) error {
	sql := `UPDATE users SET latitude = $2, longitude = $3, street = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id, latitude, longitude, street); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}
