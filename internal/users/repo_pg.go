package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"hirewise-backend/internal/shared/storage/db"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type PGRepo struct {
	DB *sql.DB
}

const selectUserColumns = `id, company_id, role, full_name, email, password_hash, created_at, updated_at`

// Insert writes a new user through exec so company registration can share a
// transaction with the company row.
func Insert(ctx context.Context, exec Execer, user User) error {
	const query = `
INSERT INTO users (id, company_id, role, full_name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := exec.ExecContext(ctx, query,
		user.ID,
		user.CompanyID,
		user.Role,
		user.FullName,
		NormalizeEmail(user.Email),
		nullableString(user.PasswordHash),
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	return Insert(ctx, r.DB, user)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE lower(email) = $1 LIMIT 1`
	return r.getOne(ctx, query, NormalizeEmail(email))
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var user User
	var passwordHash sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.CompanyID,
		&user.Role,
		&user.FullName,
		&user.Email,
		&passwordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if db.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
