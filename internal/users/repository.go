package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipe-api/recipe-api/internal/platform/db"
	"github.com/recipe-api/recipe-api/internal/shared"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Update loads the user, applies fn and saves the result atomically.
	Update(ctx context.Context, id int64, fn func(*User) error) (*User, error)
}

const (
	emailConstraint = "users_email_key"
	userColumns     = `id, email, password_hash, name, is_active, is_staff, is_superuser, created_at, updated_at`
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new user.
func (r *PGRepository) Create(ctx context.Context, user *User) (*User, error) {
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `INSERT INTO users (email, password_hash, name, is_active, is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+userColumns,
		user.Email, user.PasswordHash, user.Name, user.IsActive, user.IsStaff, user.IsSuperuser, now)
	created, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByEmail fetches a user by normalized email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Update locks the row, applies fn and writes mutable columns back.
func (r *PGRepository) Update(ctx context.Context, id int64, fn func(*User) error) (*User, error) {
	var updated *User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		user, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		updated, err = scanUser(tx.QueryRow(ctx, `UPDATE users
			SET email = $2, password_hash = $3, name = $4, is_active = $5, is_staff = $6, is_superuser = $7, updated_at = $8
			WHERE id = $1
			RETURNING `+userColumns,
			id, user.Email, user.PasswordHash, user.Name, user.IsActive, user.IsStaff, user.IsSuperuser, time.Now().UTC()))
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
