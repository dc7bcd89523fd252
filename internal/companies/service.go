package companies

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hirewise-backend/internal/shared/auth"
	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/shared/telemetry"
	"hirewise-backend/internal/shared/util"
	"hirewise-backend/internal/users"
)

type Service struct {
	Repo            Repo
	Users           *users.Service
	DefaultTimezone string

	mu    sync.RWMutex
	zones map[string]*time.Location
}

func NewService(repo Repo, userSvc *users.Service, defaultTimezone string) *Service {
	return &Service{
		Repo:            repo,
		Users:           userSvc,
		DefaultTimezone: defaultTimezone,
		zones:           make(map[string]*time.Location),
	}
}

type RegisterInput struct {
	CompanyName string `json:"companyName"`
	Timezone    string `json:"timezone"`
	AdminName   string `json:"adminName"`
	AdminEmail  string `json:"adminEmail"`
	Password    string `json:"password"`
}

type Registration struct {
	Company Company    `json:"company"`
	User    users.User `json:"user"`
	Token   string     `json:"token"`
}

// Register creates a company with its first admin and signs them in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	if s == nil || s.Repo == nil || s.Users == nil {
		return Registration{}, errors.New("companies service not configured")
	}
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.Timezone = strings.TrimSpace(input.Timezone)
	if input.Timezone == "" {
		input.Timezone = s.DefaultTimezone
	}

	var fields []respond.FieldError
	if input.CompanyName == "" {
		fields = append(fields, respond.FieldError{Field: "companyName", Message: "is required"})
	}
	if !util.ValidTimezone(input.Timezone) {
		fields = append(fields, respond.FieldError{Field: "timezone", Message: "must be an IANA timezone"})
	}
	if strings.TrimSpace(input.AdminName) == "" {
		fields = append(fields, respond.FieldError{Field: "adminName", Message: "is required"})
	}
	if !strings.Contains(input.AdminEmail, "@") {
		fields = append(fields, respond.FieldError{Field: "adminEmail", Message: "must be a valid email"})
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		fields = append(fields, respond.FieldError{Field: "password", Message: err.Error()})
	}
	if len(fields) > 0 {
		return Registration{}, &ValidationError{Fields: fields}
	}

	company := Company{
		ID:        uuid.NewString(),
		Name:      input.CompanyName,
		Timezone:  input.Timezone,
		CreatedAt: time.Now().UTC(),
	}
	admin, err := s.Users.Build(users.CreateInput{
		CompanyID: company.ID,
		Role:      users.RoleAdmin,
		FullName:  input.AdminName,
		Email:     input.AdminEmail,
		Password:  input.Password,
	})
	if err != nil {
		return Registration{}, &ValidationError{Fields: []respond.FieldError{{Field: "user", Message: err.Error()}}}
	}
	if err := s.Repo.CreateWithAdmin(ctx, company, admin); err != nil {
		return Registration{}, err
	}
	token, err := s.Users.IssueToken(admin)
	if err != nil {
		return Registration{}, err
	}
	telemetry.Info("company.registered", map[string]any{
		"company_id": company.ID,
		"user_id":    admin.ID,
		"timezone":   company.Timezone,
	})
	return Registration{Company: company, User: admin, Token: token}, nil
}

func (s *Service) Get(ctx context.Context, companyID string) (Company, error) {
	if s == nil || s.Repo == nil {
		return Company{}, errors.New("companies service not configured")
	}
	return s.Repo.GetByID(ctx, companyID)
}

// Location returns the business timezone of a company. Unknown companies and
// lookup failures fall back to the configured default.
func (s *Service) Location(ctx context.Context, companyID string) *time.Location {
	if s == nil {
		return util.LoadLocation("")
	}
	s.mu.RLock()
	loc, ok := s.zones[companyID]
	s.mu.RUnlock()
	if ok {
		return loc
	}

	name := s.DefaultTimezone
	if s.Repo != nil && companyID != "" {
		company, err := s.Repo.GetByID(ctx, companyID)
		switch {
		case err == nil:
			name = company.Timezone
		case errors.Is(err, ErrNotFound):
			// not cached: the company may be created later
			return util.LoadLocation(s.DefaultTimezone)
		default:
			telemetry.Warn("company.timezone_lookup_failed", map[string]any{"company_id": companyID, "error": err})
			return util.LoadLocation(s.DefaultTimezone)
		}
	}
	loc = util.LoadLocation(name)
	s.mu.Lock()
	if s.zones == nil {
		s.zones = make(map[string]*time.Location)
	}
	s.zones[companyID] = loc
	s.mu.Unlock()
	return loc
}
