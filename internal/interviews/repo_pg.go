package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hirewise-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const selectInterviewColumns = `
  i.id, i.company_id, i.application_id, i.interviewer_id, i.scheduled_by,
  i.candidate_name, i.candidate_email, i.job_title, i.interviewer_name,
  i.scheduled_at, i.duration_minutes, i.type, i.round, i.location, i.meeting_link, i.notes,
  i.status, i.cancellation_reason, i.cancelled_at, i.completed_at,
  i.overall_rating, i.technical_skills, i.communication_skills, i.problem_solving, i.cultural_fit,
  i.recommendation, i.strengths, i.weaknesses, i.additional_notes,
  i.feedback_submitted_at, i.feedback_updated_at, i.preparation_materials,
  i.created_at, i.updated_at,
  COALESCE((
    SELECT json_agg(json_build_object(
      'oldScheduledAt', r.old_scheduled_at,
      'newScheduledAt', r.new_scheduled_at,
      'rescheduledBy', r.rescheduled_by,
      'reason', COALESCE(r.reason, ''),
      'rescheduledAt', r.rescheduled_at) ORDER BY r.rescheduled_at, r.id)
    FROM interview_reschedules r WHERE r.interview_id = i.id), '[]') AS history,
  COALESCE((
    SELECT json_agg(json_build_object('kind', m.kind, 'sentAt', m.sent_at) ORDER BY m.sent_at)
    FROM interview_reminders m WHERE m.interview_id = i.id), '[]') AS reminders`

const activeStatusSQL = `('scheduled', 'confirmed', 'in_progress', 'rescheduled')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (Interview, error) {
	var (
		iv                  Interview
		location            sql.NullString
		meetingLink         sql.NullString
		notes               sql.NullString
		cancellationReason  sql.NullString
		cancelledAt         sql.NullTime
		completedAt         sql.NullTime
		overallRating       sql.NullInt32
		technicalSkills     sql.NullInt32
		communicationSkills sql.NullInt32
		problemSolving      sql.NullInt32
		culturalFit         sql.NullInt32
		recommendation      sql.NullString
		strengths           []byte
		weaknesses          []byte
		additionalNotes     sql.NullString
		submittedAt         sql.NullTime
		feedbackUpdatedAt   sql.NullTime
		materials           []byte
		history             []byte
		reminders           []byte
	)
	err := row.Scan(
		&iv.ID,
		&iv.CompanyID,
		&iv.ApplicationID,
		&iv.InterviewerID,
		&iv.ScheduledBy,
		&iv.CandidateName,
		&iv.CandidateEmail,
		&iv.JobTitle,
		&iv.InterviewerName,
		&iv.ScheduledAt,
		&iv.DurationMinutes,
		&iv.Type,
		&iv.Round,
		&location,
		&meetingLink,
		&notes,
		&iv.Status,
		&cancellationReason,
		&cancelledAt,
		&completedAt,
		&overallRating,
		&technicalSkills,
		&communicationSkills,
		&problemSolving,
		&culturalFit,
		&recommendation,
		&strengths,
		&weaknesses,
		&additionalNotes,
		&submittedAt,
		&feedbackUpdatedAt,
		&materials,
		&iv.CreatedAt,
		&iv.UpdatedAt,
		&history,
		&reminders,
	)
	if err != nil {
		return Interview{}, err
	}
	iv.ScheduledAt = iv.ScheduledAt.UTC()
	iv.Location = location.String
	iv.MeetingLink = meetingLink.String
	iv.Notes = notes.String
	iv.CancellationReason = cancellationReason.String
	iv.CancelledAt = timePtr(cancelledAt)
	iv.CompletedAt = timePtr(completedAt)

	if submittedAt.Valid && overallRating.Valid {
		fb := &Feedback{
			OverallRating:       int(overallRating.Int32),
			TechnicalSkills:     intPtr(technicalSkills),
			CommunicationSkills: intPtr(communicationSkills),
			ProblemSolving:      intPtr(problemSolving),
			CulturalFit:         intPtr(culturalFit),
			Recommendation:      recommendation.String,
			AdditionalNotes:     additionalNotes.String,
			SubmittedAt:         submittedAt.Time.UTC(),
			UpdatedAt:           submittedAt.Time.UTC(),
		}
		if feedbackUpdatedAt.Valid {
			fb.UpdatedAt = feedbackUpdatedAt.Time.UTC()
		}
		if err := decodeJSONList(strengths, &fb.Strengths); err != nil {
			return Interview{}, fmt.Errorf("decode strengths: %w", err)
		}
		if err := decodeJSONList(weaknesses, &fb.Weaknesses); err != nil {
			return Interview{}, fmt.Errorf("decode weaknesses: %w", err)
		}
		iv.Feedback = fb
	}
	if err := decodeJSONList(materials, &iv.PreparationMaterials); err != nil {
		return Interview{}, fmt.Errorf("decode preparation materials: %w", err)
	}
	if err := decodeJSONList(history, &iv.RescheduleHistory); err != nil {
		return Interview{}, fmt.Errorf("decode reschedule history: %w", err)
	}
	if err := decodeJSONList(reminders, &iv.Reminders); err != nil {
		return Interview{}, fmt.Errorf("decode reminders: %w", err)
	}
	return iv, nil
}

func (r *PGRepo) queryInterviews(ctx context.Context, query string, args ...any) ([]Interview, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lockInterviewer serializes bookings for one interviewer until tx ends and
// reports whether [start, end) overlaps another active interview.
func lockInterviewer(ctx context.Context, tx *sql.Tx, iv Interview) (bool, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, iv.InterviewerID); err != nil {
		return false, fmt.Errorf("lock interviewer: %w", err)
	}
	const query = `
SELECT EXISTS (
  SELECT 1 FROM interviews
  WHERE interviewer_id = $1
    AND id <> $2
    AND status IN ` + activeStatusSQL + `
    AND scheduled_at < $3
    AND scheduled_at + make_interval(mins => duration_minutes) > $4
)`
	var exists bool
	if err := tx.QueryRowContext(ctx, query, iv.InterviewerID, iv.ID, iv.EndsAt().UTC(), iv.ScheduledAt.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return exists, nil
}

func (r *PGRepo) Create(ctx context.Context, iv Interview) error {
	materials, err := encodeJSONList(iv.PreparationMaterials)
	if err != nil {
		return err
	}
	createdAt := iv.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		conflict, err := lockInterviewer(ctx, tx, iv)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}
		const query = `
INSERT INTO interviews (
  id, company_id, application_id, interviewer_id, scheduled_by,
  candidate_name, candidate_email, job_title, interviewer_name,
  scheduled_at, duration_minutes, type, round, location, meeting_link, notes,
  status, preparation_materials, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)`
		_, err = tx.ExecContext(ctx, query,
			iv.ID,
			iv.CompanyID,
			iv.ApplicationID,
			iv.InterviewerID,
			iv.ScheduledBy,
			iv.CandidateName,
			iv.CandidateEmail,
			iv.JobTitle,
			iv.InterviewerName,
			iv.ScheduledAt.UTC(),
			iv.DurationMinutes,
			iv.Type,
			iv.Round,
			nullableString(iv.Location),
			nullableString(iv.MeetingLink),
			nullableString(iv.Notes),
			iv.Status,
			materials,
			createdAt.UTC(),
		)
		if isUniqueViolation(err) {
			return ErrSlotConflict
		}
		return err
	})
}

func (r *PGRepo) Get(ctx context.Context, companyID, interviewID string) (Interview, error) {
	query := `SELECT ` + selectInterviewColumns + `
FROM interviews i
WHERE i.id = $1 AND i.company_id = $2`
	iv, err := scanInterview(r.DB.QueryRowContext(ctx, query, interviewID, companyID))
	if err != nil {
		if db.IsNotFound(err) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	return iv, nil
}

func (r *PGRepo) Reschedule(ctx context.Context, iv Interview, prev string, entry RescheduleEntry) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		conflict, err := lockInterviewer(ctx, tx, iv)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}
		const update = `
UPDATE interviews
SET scheduled_at = $3, duration_minutes = $4, status = $5, updated_at = $6
WHERE id = $1 AND company_id = $2 AND status = $7`
		res, err := tx.ExecContext(ctx, update,
			iv.ID,
			iv.CompanyID,
			iv.ScheduledAt.UTC(),
			iv.DurationMinutes,
			iv.Status,
			iv.UpdatedAt.UTC(),
			prev,
		)
		if isUniqueViolation(err) {
			return ErrSlotConflict
		}
		if err := affectedTransition(res, err); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM interview_reminders WHERE interview_id = $1`, iv.ID); err != nil {
			return err
		}
		const insert = `
INSERT INTO interview_reschedules (interview_id, old_scheduled_at, new_scheduled_at, rescheduled_by, reason, rescheduled_at)
VALUES ($1, $2, $3, $4, $5, $6)`
		_, err = tx.ExecContext(ctx, insert,
			iv.ID,
			entry.OldScheduledAt.UTC(),
			entry.NewScheduledAt.UTC(),
			entry.RescheduledBy,
			nullableString(entry.Reason),
			entry.RescheduledAt.UTC(),
		)
		return err
	})
}

func (r *PGRepo) UpdateStatus(ctx context.Context, iv Interview, prev string) error {
	const query = `
UPDATE interviews
SET status = $3, cancellation_reason = $4, cancelled_at = $5, completed_at = $6, updated_at = $7
WHERE id = $1 AND company_id = $2 AND status = $8`
	res, err := r.DB.ExecContext(ctx, query,
		iv.ID,
		iv.CompanyID,
		iv.Status,
		nullableString(iv.CancellationReason),
		nullableTime(iv.CancelledAt),
		nullableTime(iv.CompletedAt),
		iv.UpdatedAt.UTC(),
		prev,
	)
	return affectedTransition(res, err)
}

func (r *PGRepo) SaveFeedback(ctx context.Context, iv Interview, prev string) error {
	fb := iv.Feedback
	if fb == nil {
		return errors.New("feedback is required")
	}
	strengths, err := encodeJSONList(fb.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := encodeJSONList(fb.Weaknesses)
	if err != nil {
		return err
	}
	const query = `
UPDATE interviews
SET overall_rating = $3, technical_skills = $4, communication_skills = $5, problem_solving = $6,
    cultural_fit = $7, recommendation = $8, strengths = $9, weaknesses = $10, additional_notes = $11,
    feedback_submitted_at = $12, feedback_updated_at = $13, status = $14, completed_at = $15, updated_at = $16
WHERE id = $1 AND company_id = $2 AND status = $17`
	res, err := r.DB.ExecContext(ctx, query,
		iv.ID,
		iv.CompanyID,
		fb.OverallRating,
		nullableInt(fb.TechnicalSkills),
		nullableInt(fb.CommunicationSkills),
		nullableInt(fb.ProblemSolving),
		nullableInt(fb.CulturalFit),
		fb.Recommendation,
		strengths,
		weaknesses,
		nullableString(fb.AdditionalNotes),
		fb.SubmittedAt.UTC(),
		fb.UpdatedAt.UTC(),
		iv.Status,
		nullableTime(iv.CompletedAt),
		iv.UpdatedAt.UTC(),
		prev,
	)
	return affectedTransition(res, err)
}

// buildWhere renders q as a WHERE clause over alias i.
func buildWhere(q ListQuery) (string, []any) {
	args := []any{q.CompanyID}
	clauses := []string{"i.company_id = $1"}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	inList := func(values []string) string {
		placeholders := make([]string, len(values))
		for idx, v := range values {
			placeholders[idx] = next(v)
		}
		return "(" + strings.Join(placeholders, ", ") + ")"
	}

	if q.InterviewerID != "" {
		clauses = append(clauses, "i.interviewer_id = "+next(q.InterviewerID))
	}
	if q.ApplicationID != "" {
		clauses = append(clauses, "i.application_id = "+next(q.ApplicationID))
	}
	if len(q.Statuses) > 0 {
		clauses = append(clauses, "i.status IN "+inList(q.Statuses))
	}
	if len(q.ExcludeStatuses) > 0 {
		clauses = append(clauses, "i.status NOT IN "+inList(q.ExcludeStatuses))
	}
	if q.From != nil {
		clauses = append(clauses, "i.scheduled_at >= "+next(q.From.UTC()))
	}
	if q.To != nil {
		clauses = append(clauses, "i.scheduled_at < "+next(q.To.UTC()))
	}
	if q.FeedbackOpenSince != nil {
		clauses = append(clauses, "(i.feedback_submitted_at IS NULL OR i.feedback_submitted_at >= "+next(q.FeedbackOpenSince.UTC())+")")
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		p := next("%" + escapeLike(term) + "%")
		clauses = append(clauses, "(i.candidate_name ILIKE "+p+" OR i.job_title ILIKE "+p+" OR i.interviewer_name ILIKE "+p+")")
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Interview, int, error) {
	total, err := r.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}
	where, args := buildWhere(q)
	order := "ASC"
	if q.SortDesc {
		order = "DESC"
	}
	query := `SELECT ` + selectInterviewColumns + `
FROM interviews i
` + where + `
ORDER BY i.scheduled_at ` + order + `, i.id`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	items, err := r.queryInterviews(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PGRepo) Count(ctx context.Context, q ListQuery) (int, error) {
	where, args := buildWhere(q)
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM interviews i `+where, args...).Scan(&total); err != nil {
		// a malformed id filter matches nothing
		if db.IsInvalidText(err) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

func (r *PGRepo) Busy(ctx context.Context, interviewerID string, from, to time.Time) ([]Interview, error) {
	query := `SELECT ` + selectInterviewColumns + `
FROM interviews i
WHERE i.interviewer_id = $1
  AND i.status IN ` + activeStatusSQL + `
  AND i.scheduled_at < $2
  AND i.scheduled_at + make_interval(mins => i.duration_minutes) > $3
ORDER BY i.scheduled_at`
	return r.queryInterviews(ctx, query, interviewerID, to.UTC(), from.UTC())
}

func (r *PGRepo) RecentlyUpdated(ctx context.Context, companyID, interviewerID string, limit int) ([]Interview, error) {
	query := `SELECT ` + selectInterviewColumns + `
FROM interviews i
WHERE i.company_id = $1 AND i.interviewer_id = $2
ORDER BY i.updated_at DESC
LIMIT $3`
	return r.queryInterviews(ctx, query, companyID, interviewerID, limit)
}

func (r *PGRepo) HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error) {
	const query = `
SELECT EXISTS (
  SELECT 1 FROM interviews
  WHERE company_id = $1 AND application_id = $2
    AND status = 'completed' AND feedback_submitted_at IS NOT NULL
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, companyID, applicationID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) DueReminders(ctx context.Context, kind string, from, to time.Time, limit int) ([]Interview, error) {
	query := `SELECT ` + selectInterviewColumns + `
FROM interviews i
WHERE i.status IN ('scheduled', 'confirmed')
  AND i.scheduled_at > $2
  AND i.scheduled_at <= $3
  AND NOT EXISTS (
    SELECT 1 FROM interview_reminders m WHERE m.interview_id = i.id AND m.kind = $1
  )
ORDER BY i.scheduled_at
LIMIT $4`
	return r.queryInterviews(ctx, query, kind, from.UTC(), to.UTC(), limit)
}

func (r *PGRepo) RecordReminder(ctx context.Context, interviewID, kind string, sentAt time.Time) (bool, error) {
	const query = `
INSERT INTO interview_reminders (interview_id, kind, sent_at)
VALUES ($1, $2, $3)
ON CONFLICT (interview_id, kind) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query, interviewID, kind, sentAt.UTC())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func affectedOne(res sql.Result, err error) error {
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

// affectedTransition treats zero rows as a lost race on the status guard.
// Callers read the row in the same company first, so a missing row is a
// concurrent status change rather than an unknown id.
func affectedTransition(res sql.Result, err error) error {
	if err := affectedOne(res, err); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidTransition
		}
		return err
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func encodeJSONList[T any](items []T) (string, error) {
	if items == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(raw), nil
}

func decodeJSONList[T any](raw []byte, out *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func intPtr(value sql.NullInt32) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int32)
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
