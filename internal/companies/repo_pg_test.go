package companies

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"hirewise-backend/internal/users"
)

func TestPGRepoCreateWithAdminCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO companies").
		WithArgs("company-1", "Acme", "Asia/Kolkata").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "company-1", users.RoleAdmin, "Priya", "priya@acme.test", "hash").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	err = repo.CreateWithAdmin(context.Background(),
		Company{ID: "company-1", Name: "Acme", Timezone: "Asia/Kolkata"},
		users.User{ID: "user-1", CompanyID: "company-1", Role: users.RoleAdmin, FullName: "Priya", Email: "priya@acme.test", PasswordHash: "hash"},
	)
	if err != nil {
		t.Fatalf("CreateWithAdmin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWithAdminRollsBackOnDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO companies").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	err = repo.CreateWithAdmin(context.Background(),
		Company{ID: "company-1", Name: "Acme", Timezone: "Asia/Kolkata"},
		users.User{ID: "user-1", CompanyID: "company-1", Role: users.RoleAdmin, FullName: "Priya", Email: "priya@acme.test", PasswordHash: "hash"},
	)
	if !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
