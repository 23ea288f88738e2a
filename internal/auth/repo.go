package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipe-api/recipe-api/internal/shared"
)

// Repository defines persistence operations for auth tokens.
type Repository interface {
	// GetOrCreate returns the user's token, storing key when none exists.
	GetOrCreate(ctx context.Context, userID int64, key string) (*Token, error)
	FindByKey(ctx context.Context, key string) (*Token, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetOrCreate inserts a token for the user or returns the existing one. The
// no-op update makes RETURNING yield the stored row on conflict.
func (r *PGRepository) GetOrCreate(ctx context.Context, userID int64, key string) (*Token, error) {
	var t Token
	err := r.pool.QueryRow(ctx, `INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key, user_id, created_at`,
		key, userID, time.Now().UTC()).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByKey fetches a token by its key.
func (r *PGRepository) FindByKey(ctx context.Context, key string) (*Token, error) {
	var t Token
	err := r.pool.QueryRow(ctx, `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`, key).
		Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ Repository = (*PGRepository)(nil)
