package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/expert-calendar-api/internal/models"
)

const expertColumns = `id, email, password_hash, full_name, active, last_login, created_at, updated_at`

// UserRepository persists expert accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail fetches an expert by email. sql.ErrNoRows passes through.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.Expert, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", expertColumns)
	var expert models.Expert
	if err := r.db.GetContext(ctx, &expert, query, email); err != nil {
		return nil, err
	}
	return &expert, nil
}

// FindByID fetches an expert by id. sql.ErrNoRows passes through.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", expertColumns)
	var expert models.Expert
	if err := r.db.GetContext(ctx, &expert, query, id); err != nil {
		return nil, err
	}
	return &expert, nil
}

// UpdateLastLogin records the latest successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1", id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
