package companies

import (
	"context"
	"errors"
	"time"

	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/users"
)

var ErrNotFound = errors.New("company not found")

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidationError carries the per-field problems of a registration request.
type ValidationError struct {
	Fields []respond.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Field + " " + e.Fields[0].Message
}

type Repo interface {
	GetByID(ctx context.Context, companyID string) (Company, error)
	// CreateWithAdmin stores the company and its first admin atomically.
	CreateWithAdmin(ctx context.Context, company Company, admin users.User) error
}
