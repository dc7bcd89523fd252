package interviews

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var interviewColumns = []string{
	"id", "company_id", "application_id", "interviewer_id", "scheduled_by",
	"candidate_name", "candidate_email", "job_title", "interviewer_name",
	"scheduled_at", "duration_minutes", "type", "round", "location", "meeting_link", "notes",
	"status", "cancellation_reason", "cancelled_at", "completed_at",
	"overall_rating", "technical_skills", "communication_skills", "problem_solving", "cultural_fit",
	"recommendation", "strengths", "weaknesses", "additional_notes",
	"feedback_submitted_at", "feedback_updated_at", "preparation_materials",
	"created_at", "updated_at", "history", "reminders",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func sampleInterview() Interview {
	at := time.Date(2025, 9, 20, 4, 30, 0, 0, time.UTC)
	return Interview{
		ID:              "iv-1",
		CompanyID:       "company-1",
		ApplicationID:   "app-1",
		InterviewerID:   "interviewer-1",
		ScheduledBy:     "hr-1",
		CandidateName:   "Meera Iyer",
		CandidateEmail:  "meera@example.com",
		JobTitle:        "Backend Engineer",
		InterviewerName: "Arjun",
		ScheduledAt:     at,
		DurationMinutes: 60,
		Type:            TypeVideo,
		Round:           1,
		Status:          StatusScheduled,
		CreatedAt:       at.Add(-24 * time.Hour),
	}
}

func expectLock(mock sqlmock.Sqlmock, iv Interview, conflict bool) {
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(iv.InterviewerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(iv.InterviewerID, iv.ID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(conflict))
}

func TestPGCreateRejectsOverlap(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()

	mock.ExpectBegin()
	expectLock(mock, iv, true)
	mock.ExpectRollback()

	if err := repo.Create(context.Background(), iv); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGCreateMapsUniqueIndexToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()

	mock.ExpectBegin()
	expectLock(mock, iv, false)
	mock.ExpectExec("INSERT INTO interviews").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	if err := repo.Create(context.Background(), iv); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGCreateCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()
	iv.PreparationMaterials = []string{"system design primer"}

	mock.ExpectBegin()
	expectLock(mock, iv, false)
	mock.ExpectExec("INSERT INTO interviews").
		WithArgs(
			iv.ID, iv.CompanyID, iv.ApplicationID, iv.InterviewerID, iv.ScheduledBy,
			iv.CandidateName, iv.CandidateEmail, iv.JobTitle, iv.InterviewerName,
			iv.ScheduledAt, 60, TypeVideo, 1, nil, nil, nil,
			StatusScheduled, `["system design primer"]`, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), iv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func interviewRow(iv Interview, feedbackAt *time.Time) []driver.Value {
	var rating, recommendation, strengths, submitted any
	if feedbackAt != nil {
		rating = int64(4)
		recommendation = RecommendationHire
		strengths = []byte(`["Go"]`)
		submitted = *feedbackAt
	}
	return []driver.Value{
		iv.ID, iv.CompanyID, iv.ApplicationID, iv.InterviewerID, iv.ScheduledBy,
		iv.CandidateName, iv.CandidateEmail, iv.JobTitle, iv.InterviewerName,
		iv.ScheduledAt, int64(iv.DurationMinutes), iv.Type, int64(iv.Round), nil, "https://meet.example/abc", nil,
		iv.Status, nil, nil, nil,
		rating, nil, nil, nil, nil,
		recommendation, strengths, []byte(`[]`), nil,
		submitted, nil, []byte(`["primer"]`),
		iv.CreatedAt, iv.CreatedAt,
		[]byte(`[{"oldScheduledAt":"2025-09-19T04:30:00Z","newScheduledAt":"2025-09-20T04:30:00Z","rescheduledBy":"hr-1","reason":"","rescheduledAt":"2025-09-18T10:00:00Z"}]`),
		[]byte(`[{"kind":"day_before","sentAt":"2025-09-19T05:00:00Z"}]`),
	}
}

func TestPGGetDecodesAggregates(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()
	submitted := iv.ScheduledAt.Add(3 * time.Hour)

	mock.ExpectQuery("FROM interviews i\\s+WHERE i.id = \\$1 AND i.company_id = \\$2").
		WithArgs("iv-1", "company-1").
		WillReturnRows(sqlmock.NewRows(interviewColumns).AddRow(interviewRow(iv, &submitted)...))

	got, err := repo.Get(context.Background(), "company-1", "iv-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MeetingLink != "https://meet.example/abc" || got.Location != "" {
		t.Fatalf("unexpected nullable fields %+v", got)
	}
	if !got.HasFeedback() || got.Feedback.OverallRating != 4 || len(got.Feedback.Strengths) != 1 {
		t.Fatalf("unexpected feedback %+v", got.Feedback)
	}
	if !got.Feedback.UpdatedAt.Equal(submitted) {
		t.Fatalf("updatedAt falls back to submittedAt, got %s", got.Feedback.UpdatedAt)
	}
	if len(got.RescheduleHistory) != 1 || got.RescheduleHistory[0].RescheduledBy != "hr-1" {
		t.Fatalf("unexpected history %+v", got.RescheduleHistory)
	}
	if !got.HasReminder(ReminderDayBefore) {
		t.Fatalf("expected day_before reminder")
	}
	if len(got.PreparationMaterials) != 1 {
		t.Fatalf("unexpected materials %v", got.PreparationMaterials)
	}
}

func TestPGGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM interviews i").
		WithArgs("missing", "company-1").
		WillReturnRows(sqlmock.NewRows(interviewColumns))

	if _, err := repo.Get(context.Background(), "company-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGMalformedIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	invalid := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

	mock.ExpectQuery("FROM interviews i").
		WithArgs("not-a-uuid", "company-1").
		WillReturnError(invalid)
	if _, err := repo.Get(context.Background(), "company-1", "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("company-1", "not-a-uuid").
		WillReturnError(invalid)
	items, total, err := repo.List(context.Background(), ListQuery{CompanyID: "company-1", InterviewerID: "not-a-uuid"})
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("expected an empty page, got %d %v %v", total, items, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestBuildWherePlaceholders(t *testing.T) {
	from := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	where, args := buildWhere(ListQuery{
		CompanyID:       "company-1",
		InterviewerID:   "interviewer-1",
		Statuses:        []string{StatusScheduled, StatusConfirmed},
		ExcludeStatuses: []string{StatusNoShow},
		From:            &from,
		Search:          "50%_off",
	})
	for _, want := range []string{
		"i.company_id = $1",
		"i.interviewer_id = $2",
		"i.status IN ($3, $4)",
		"i.status NOT IN ($5)",
		"i.scheduled_at >= $6",
		"i.candidate_name ILIKE $7",
		"i.interviewer_name ILIKE $7",
	} {
		if !strings.Contains(where, want) {
			t.Fatalf("where clause %q missing %q", where, want)
		}
	}
	if len(args) != 7 || args[6] != `%50\%\_off%` {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestPGListPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM interviews i WHERE i.company_id = \\$1").
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("ORDER BY i.scheduled_at DESC, i.id LIMIT \\$2 OFFSET \\$3").
		WithArgs("company-1", 10, 10).
		WillReturnRows(sqlmock.NewRows(interviewColumns).AddRow(interviewRow(iv, nil)...))

	items, total, err := repo.List(context.Background(), ListQuery{CompanyID: "company-1", SortDesc: true, Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 11 || len(items) != 1 || items[0].HasFeedback() {
		t.Fatalf("unexpected list result total=%d items=%+v", total, items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGDashboardLoadsFullTodayRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2025, 9, 20, 6, 0, 0, 0, time.UTC)
	b := NewBounds(now, ist, DefaultEditWindow)

	cols := []string{"total", "upcoming", "completed_week", "this_week", "last_week", "unsubmitted",
		"editable", "overdue", "b1", "b2", "b3", "b4", "fb", "avg"}
	mock.ExpectQuery("CROSS JOIN LATERAL").
		WithArgs("company-1", "interviewer-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, 2, 1, 3, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1.04))

	iv := sampleInterview()
	iv.Status = StatusCompleted
	submitted := iv.ScheduledAt.Add(time.Hour)
	mock.ExpectQuery("i.scheduled_at >= \\$3 AND i.scheduled_at < \\$4").
		WithArgs("company-1", "interviewer-1", b.TodayStart.UTC(), b.TodayEnd.UTC()).
		WillReturnRows(sqlmock.NewRows(interviewColumns).AddRow(interviewRow(iv, &submitted)...))

	stats, err := repo.Dashboard(context.Background(), "company-1", "interviewer-1", b)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.Counters.Total != 5 || stats.Counters.ThisWeek != 3 || stats.Turnaround.AverageHours != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.Today) != 1 {
		t.Fatalf("unexpected today agenda %+v", stats.Today)
	}
	got := stats.Today[0]
	if !got.HasFeedback() || got.Feedback.OverallRating != 4 || got.Feedback.Recommendation != RecommendationHire {
		t.Fatalf("today feedback must be complete, got %+v", got.Feedback)
	}
	if got.InterviewerName != "Arjun" || got.ScheduledBy != "hr-1" {
		t.Fatalf("today row must carry names, got %q / %q", got.InterviewerName, got.ScheduledBy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRecordReminderIsIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)
	sent := time.Date(2025, 9, 19, 5, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO interview_reminders").
		WithArgs("iv-1", ReminderDayBefore, sent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("ON CONFLICT \\(interview_id, kind\\) DO NOTHING").
		WithArgs("iv-1", ReminderDayBefore, sent).
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.RecordReminder(context.Background(), "iv-1", ReminderDayBefore, sent)
	if err != nil || !first {
		t.Fatalf("first insert: %v %v", first, err)
	}
	again, err := repo.RecordReminder(context.Background(), "iv-1", ReminderDayBefore, sent)
	if err != nil || again {
		t.Fatalf("second insert must be a no-op: %v %v", again, err)
	}
}

func TestPGUpdateStatusGuardsPreviousStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()
	iv.Status = StatusCompleted

	mock.ExpectExec("UPDATE interviews").
		WithArgs(iv.ID, iv.CompanyID, StatusCompleted, nil, nil, nil, sqlmock.AnyArg(), StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), iv, StatusInProgress); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRescheduleClearsReminders(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()
	iv.Status = StatusConfirmed
	old := iv.ScheduledAt
	iv.ScheduledAt = old.Add(72 * time.Hour)
	entry := RescheduleEntry{OldScheduledAt: old, NewScheduledAt: iv.ScheduledAt, RescheduledBy: "hr-1", RescheduledAt: old}

	mock.ExpectBegin()
	expectLock(mock, iv, false)
	mock.ExpectExec("WHERE id = \\$1 AND company_id = \\$2 AND status = \\$7").
		WithArgs(iv.ID, iv.CompanyID, iv.ScheduledAt, 60, StatusConfirmed, sqlmock.AnyArg(), StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM interview_reminders").
		WithArgs(iv.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO interview_reschedules").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reschedule(context.Background(), iv, StatusConfirmed, entry); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGSaveFeedbackLostRace(t *testing.T) {
	repo, mock := newMockRepo(t)
	iv := sampleInterview()
	iv.Status = StatusCompleted
	iv.Feedback = &Feedback{OverallRating: 4, Recommendation: RecommendationHire, SubmittedAt: iv.ScheduledAt, UpdatedAt: iv.ScheduledAt}

	mock.ExpectExec("WHERE id = \\$1 AND company_id = \\$2 AND status = \\$17").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SaveFeedback(context.Background(), iv, StatusScheduled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
