package applications

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
	apps map[string]Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		jobs: make(map[string]Job),
		apps: make(map[string]Application),
	}
}

func (r *MemoryRepo) CreateJob(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.Status == "" {
		job.Status = JobOpen
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.Status == "" {
		app.Status = StatusApplied
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	r.apps[app.ID] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, companyID, applicationID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[applicationID]
	if !ok || app.CompanyID != companyID {
		return Application{}, ErrNotFound
	}
	if job, ok := r.jobs[app.JobID]; ok {
		app.JobTitle = job.Title
	}
	return app, nil
}

func (r *MemoryRepo) MarkInterviewing(ctx context.Context, companyID, applicationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[applicationID]
	if !ok || app.CompanyID != companyID {
		return ErrNotFound
	}
	if app.Status == StatusApplied || app.Status == StatusScreening {
		app.Status = StatusInterviewing
		app.UpdatedAt = time.Now().UTC()
		r.apps[applicationID] = app
	}
	return nil
}

func (r *MemoryRepo) SaveDecision(ctx context.Context, companyID, applicationID, status, notes, decidedBy string, decidedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[applicationID]
	if !ok || app.CompanyID != companyID {
		return ErrNotFound
	}
	at := decidedAt.UTC()
	app.Status = status
	app.DecisionNotes = notes
	app.DecidedBy = decidedBy
	app.DecidedAt = &at
	app.UpdatedAt = at
	r.apps[applicationID] = app
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
