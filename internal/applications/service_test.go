package applications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubEvidence struct {
	ok  bool
	err error
}

func (s stubEvidence) HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error) {
	return s.ok, s.err
}

func seedApplication(t *testing.T, repo *MemoryRepo, status string) Application {
	t.Helper()
	ctx := context.Background()
	if err := repo.CreateJob(ctx, Job{ID: "job-1", CompanyID: "company-1", Title: "Backend Engineer"}); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	app := Application{
		ID:             "app-1",
		CompanyID:      "company-1",
		JobID:          "job-1",
		CandidateName:  "Meera",
		CandidateEmail: "meera@example.com",
		Status:         status,
	}
	if err := repo.Create(ctx, app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return app
}

func TestDecideRequiresCompletedInterview(t *testing.T) {
	repo := NewMemoryRepo()
	seedApplication(t, repo, StatusInterviewing)
	svc := NewService(repo)
	svc.Evidence = stubEvidence{ok: false}

	_, err := svc.Decide(context.Background(), DecisionInput{
		CompanyID:     "company-1",
		ApplicationID: "app-1",
		Status:        StatusOfferExtended,
		DecidedBy:     "hr-1",
	})
	if !errors.Is(err, ErrDecisionNotAllowed) {
		t.Fatalf("expected ErrDecisionNotAllowed, got %v", err)
	}
	app, _ := repo.GetByID(context.Background(), "company-1", "app-1")
	if app.Status != StatusInterviewing {
		t.Fatalf("status must be unchanged, got %s", app.Status)
	}
}

func TestDecideRecordsDecision(t *testing.T) {
	repo := NewMemoryRepo()
	seedApplication(t, repo, StatusInterviewing)
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)
	svc := NewService(repo)
	svc.Evidence = stubEvidence{ok: true}
	svc.Now = func() time.Time { return now }

	app, err := svc.Decide(context.Background(), DecisionInput{
		CompanyID:     "company-1",
		ApplicationID: "app-1",
		Status:        StatusOfferExtended,
		Notes:         " strong panel ",
		DecidedBy:     "hr-1",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if app.Status != StatusOfferExtended || app.DecisionNotes != "strong panel" {
		t.Fatalf("unexpected application %+v", app)
	}
	stored, err := repo.GetByID(context.Background(), "company-1", "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.DecidedAt == nil || !stored.DecidedAt.Equal(now) || stored.DecidedBy != "hr-1" {
		t.Fatalf("decision not persisted: %+v", stored)
	}
	if stored.JobTitle != "Backend Engineer" {
		t.Fatalf("expected job title join, got %q", stored.JobTitle)
	}
}

func TestDecideRejectsInvalidStatusAndOtherTenants(t *testing.T) {
	repo := NewMemoryRepo()
	seedApplication(t, repo, StatusInterviewing)
	svc := NewService(repo)
	svc.Evidence = stubEvidence{ok: true}

	if _, err := svc.Decide(context.Background(), DecisionInput{CompanyID: "company-1", ApplicationID: "app-1", Status: "hired"}); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), DecisionInput{CompanyID: "company-2", ApplicationID: "app-1", Status: StatusRejected}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
}

func TestDecideRejectsWithdrawn(t *testing.T) {
	repo := NewMemoryRepo()
	seedApplication(t, repo, StatusWithdrawn)
	svc := NewService(repo)
	svc.Evidence = stubEvidence{ok: true}

	if _, err := svc.Decide(context.Background(), DecisionInput{CompanyID: "company-1", ApplicationID: "app-1", Status: StatusRejected}); !errors.Is(err, ErrDecisionNotAllowed) {
		t.Fatalf("expected ErrDecisionNotAllowed, got %v", err)
	}
}

func TestMarkInterviewingOnlyAdvancesEarlyStatuses(t *testing.T) {
	repo := NewMemoryRepo()
	seedApplication(t, repo, StatusScreening)
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.MarkInterviewing(ctx, "company-1", "app-1"); err != nil {
		t.Fatalf("MarkInterviewing: %v", err)
	}
	app, _ := repo.GetByID(ctx, "company-1", "app-1")
	if app.Status != StatusInterviewing {
		t.Fatalf("expected interviewing, got %s", app.Status)
	}

	if err := repo.SaveDecision(ctx, "company-1", "app-1", StatusRejected, "", "hr-1", time.Now()); err != nil {
		t.Fatalf("SaveDecision: %v", err)
	}
	if err := svc.MarkInterviewing(ctx, "company-1", "app-1"); err != nil {
		t.Fatalf("MarkInterviewing: %v", err)
	}
	app, _ = repo.GetByID(ctx, "company-1", "app-1")
	if app.Status != StatusRejected {
		t.Fatalf("decided application must not move back, got %s", app.Status)
	}
}
