package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hirewise-backend/internal/shared/auth"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput describes a new company member.
type CreateInput struct {
	CompanyID string
	Role      string
	FullName  string
	Email     string
	Password  string
}

// Build validates input and returns a user with a hashed password. It does
// not persist anything.
func (s *Service) Build(input CreateInput) (User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = NormalizeEmail(input.Email)
	switch {
	case strings.TrimSpace(input.CompanyID) == "":
		return User{}, errors.New("company id is required")
	case !ValidRole(input.Role):
		return User{}, fmt.Errorf("unknown role %q", input.Role)
	case input.FullName == "":
		return User{}, errors.New("full name is required")
	case !strings.Contains(input.Email, "@"):
		return User{}, errors.New("a valid email is required")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return User{}, err
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return User{
		ID:           uuid.NewString(),
		CompanyID:    input.CompanyID,
		Role:         input.Role,
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
	}, nil
}

// Create builds and stores a user.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Build(input)
	if err != nil {
		return User{}, err
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	if s == nil || s.Repo == nil {
		return "", User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", User{}, ErrInvalidCredentials
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// IssueToken signs a bearer token carrying the user's tenant and role.
func (s *Service) IssueToken(user User) (string, error) {
	return auth.SignJWT(auth.Claims{
		CompanyID:        user.CompanyID,
		Role:             user.Role,
		Email:            user.Email,
		Name:             user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByEmail(ctx, email)
}

// GetInCompany returns the user only when it belongs to companyID.
func (s *Service) GetInCompany(ctx context.Context, companyID, userID string) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if user.CompanyID != companyID {
		return User{}, ErrNotFound
	}
	return user, nil
}
