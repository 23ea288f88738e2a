package recipe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists owner-scoped attributes of any Kind.
type Repository interface {
	ListByOwner(ctx context.Context, kind Kind, ownerID int64) ([]Attribute, error)
	Create(ctx context.Context, kind Kind, attr Attribute) (Attribute, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ListByOwner returns the owner's records ordered by name descending.
func (r *repository) ListByOwner(ctx context.Context, kind Kind, ownerID int64) ([]Attribute, error) {
	query := fmt.Sprintf(`SELECT id, name, user_id FROM %s WHERE user_id = $1 ORDER BY name DESC, id DESC`, kind.Table)
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attrs := make([]Attribute, 0)
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.ID, &a.Name, &a.UserID); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

// Create inserts a record and returns it with its id.
func (r *repository) Create(ctx context.Context, kind Kind, attr Attribute) (Attribute, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, user_id) VALUES ($1, $2) RETURNING id, name, user_id`, kind.Table)
	var created Attribute
	if err := r.pool.QueryRow(ctx, query, attr.Name, attr.UserID).Scan(&created.ID, &created.Name, &created.UserID); err != nil {
		return Attribute{}, err
	}
	return created, nil
}
