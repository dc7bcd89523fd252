package companies

import (
	"context"
	"sync"
	"time"

	"hirewise-backend/internal/users"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	companies map[string]Company
	users     users.Repo
}

// NewMemoryRepo stores admins through userRepo so logins can find them.
func NewMemoryRepo(userRepo users.Repo) *MemoryRepo {
	return &MemoryRepo{
		companies: make(map[string]Company),
		users:     userRepo,
	}
}

func (r *MemoryRepo) GetByID(ctx context.Context, companyID string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[companyID]
	if !ok {
		return Company{}, ErrNotFound
	}
	return company, nil
}

func (r *MemoryRepo) CreateWithAdmin(ctx context.Context, company Company, admin users.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}
	r.companies[company.ID] = company
	if err := r.users.Create(ctx, admin); err != nil {
		delete(r.companies, company.ID)
		return err
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
