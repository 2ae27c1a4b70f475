package accounts

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]Account, error)
	Seed(ctx context.Context, chart *Chart) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, type, suspense FROM accounts ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.Code, &a.Name, &a.Type, &a.Suspense); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Seed upserts the static chart so the durable store mirrors configuration.
func (r *repository) Seed(ctx context.Context, chart *Chart) error {
	for _, acc := range chart.All() {
		_, err := r.db.Exec(ctx, `INSERT INTO accounts (code, name, type, suspense)
VALUES ($1,$2,$3,$4)
ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name, type=EXCLUDED.type, suspense=EXCLUDED.suspense`,
			acc.Code, acc.Name, acc.Type, acc.Suspense)
		if err != nil {
			return err
		}
	}
	return nil
}
