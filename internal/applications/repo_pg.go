package applications

import (
	"context"
	"database/sql"
	"time"

	"hirewise-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateJob(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, company_id, title, department, status, created_at)
VALUES ($1, $2, $3, $4, $5, now())`
	status := job.Status
	if status == "" {
		status = JobOpen
	}
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.CompanyID, job.Title, nullableString(job.Department), status)
	return err
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, company_id, job_id, applicant_id, candidate_name, candidate_email, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	status := app.Status
	if status == "" {
		status = StatusApplied
	}
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.CompanyID,
		app.JobID,
		nullableString(app.ApplicantID),
		app.CandidateName,
		app.CandidateEmail,
		status,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, companyID, applicationID string) (Application, error) {
	const query = `
SELECT a.id, a.company_id, a.job_id, j.title, a.applicant_id, a.candidate_name, a.candidate_email,
       a.status, a.decision_notes, a.decided_by, a.decided_at, a.created_at, a.updated_at
FROM applications a
JOIN jobs j ON j.id = a.job_id
WHERE a.id = $1 AND a.company_id = $2`

	var (
		app         Application
		applicantID sql.NullString
		notes       sql.NullString
		decidedBy   sql.NullString
		decidedAt   sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, applicationID, companyID).Scan(
		&app.ID,
		&app.CompanyID,
		&app.JobID,
		&app.JobTitle,
		&applicantID,
		&app.CandidateName,
		&app.CandidateEmail,
		&app.Status,
		&notes,
		&decidedBy,
		&decidedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if db.IsNotFound(err) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	app.ApplicantID = applicantID.String
	app.DecisionNotes = notes.String
	app.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		t := decidedAt.Time.UTC()
		app.DecidedAt = &t
	}
	return app, nil
}

func (r *PGRepo) MarkInterviewing(ctx context.Context, companyID, applicationID string) error {
	const query = `
UPDATE applications
SET status = 'interviewing', updated_at = now()
WHERE id = $1 AND company_id = $2 AND status IN ('applied', 'screening')`
	_, err := r.DB.ExecContext(ctx, query, applicationID, companyID)
	return err
}

func (r *PGRepo) SaveDecision(ctx context.Context, companyID, applicationID, status, notes, decidedBy string, decidedAt time.Time) error {
	const query = `
UPDATE applications
SET status = $3, decision_notes = $4, decided_by = $5, decided_at = $6, updated_at = $6
WHERE id = $1 AND company_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		applicationID,
		companyID,
		status,
		nullableString(notes),
		decidedBy,
		decidedAt.UTC(),
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
