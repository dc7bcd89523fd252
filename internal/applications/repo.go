package applications

import (
	"context"
	"time"
)

type Repo interface {
	CreateJob(ctx context.Context, job Job) error
	Create(ctx context.Context, app Application) error
	// GetByID returns the application only when it belongs to companyID.
	GetByID(ctx context.Context, companyID, applicationID string) (Application, error)
	// MarkInterviewing moves an applied or screening application to interviewing.
	// Other statuses are left alone.
	MarkInterviewing(ctx context.Context, companyID, applicationID string) error
	SaveDecision(ctx context.Context, companyID, applicationID, status, notes, decidedBy string, decidedAt time.Time) error
}
