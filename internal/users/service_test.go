package users

import (
	"context"
	"errors"
	"testing"

	"hirewise-backend/internal/shared/auth"
)

func TestCreateAndLogin(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	user, err := svc.Create(context.Background(), CreateInput{
		CompanyID: "company-1",
		Role:      RoleHR,
		FullName:  " Priya Shah ",
		Email:     "Priya@Example.com",
		Password:  "hunter22x",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "priya@example.com" || user.FullName != "Priya Shah" {
		t.Fatalf("expected normalized fields, got %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "hunter22x" {
		t.Fatalf("expected hashed password")
	}

	token, got, err := svc.Login(context.Background(), "PRIYA@example.com", "hunter22x")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != user.ID || claims.CompanyID != "company-1" || claims.Role != RoleHR {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(context.Background(), CreateInput{
		CompanyID: "company-1",
		Role:      RoleInterviewer,
		FullName:  "Arjun",
		Email:     "arjun@example.com",
		Password:  "password1",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "arjun@example.com", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	input := CreateInput{
		CompanyID: "company-1",
		Role:      RoleHR,
		FullName:  "Dana",
		Email:     "dana@example.com",
		Password:  "password1",
	}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("Create: %v", err)
	}
	input.Email = "DANA@example.com"
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestBuildValidatesInput(t *testing.T) {
	svc := NewService(nil)
	cases := []CreateInput{
		{Role: RoleHR, FullName: "A", Email: "a@example.com", Password: "password1"},
		{CompanyID: "c", Role: "owner", FullName: "A", Email: "a@example.com", Password: "password1"},
		{CompanyID: "c", Role: RoleHR, FullName: " ", Email: "a@example.com", Password: "password1"},
		{CompanyID: "c", Role: RoleHR, FullName: "A", Email: "not-an-email", Password: "password1"},
		{CompanyID: "c", Role: RoleHR, FullName: "A", Email: "a@example.com", Password: "short"},
	}
	for i, input := range cases {
		if _, err := svc.Build(input); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestGetInCompanyHidesOtherTenants(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	user, err := svc.Create(context.Background(), CreateInput{
		CompanyID: "company-1",
		Role:      RoleInterviewer,
		FullName:  "Ira",
		Email:     "ira@example.com",
		Password:  "password1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.GetInCompany(context.Background(), "company-2", user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
	if _, err := svc.GetInCompany(context.Background(), "company-1", user.ID); err != nil {
		t.Fatalf("GetInCompany: %v", err)
	}
}
