package companies

import (
	"context"
	"database/sql"

	"hirewise-backend/internal/shared/storage/db"
	"hirewise-backend/internal/users"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetByID(ctx context.Context, companyID string) (Company, error) {
	const query = `SELECT id, name, timezone, created_at FROM companies WHERE id = $1`
	var company Company
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID,
		&company.Name,
		&company.Timezone,
		&company.CreatedAt,
	)
	if err != nil {
		if db.IsNotFound(err) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return company, nil
}

func (r *PGRepo) CreateWithAdmin(ctx context.Context, company Company, admin users.User) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const query = `INSERT INTO companies (id, name, timezone, created_at) VALUES ($1, $2, $3, now())`
		if _, err := tx.ExecContext(ctx, query, company.ID, company.Name, company.Timezone); err != nil {
			return err
		}
		return users.Insert(ctx, tx, admin)
	})
}

var _ Repo = (*PGRepo)(nil)
