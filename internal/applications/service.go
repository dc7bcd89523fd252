package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"hirewise-backend/internal/shared/telemetry"
)

// InterviewEvidence answers whether an application has been interviewed to
// completion with feedback recorded.
type InterviewEvidence interface {
	HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error)
}

type Service struct {
	Repo     Repo
	Evidence InterviewEvidence
	Now      func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

type DecisionInput struct {
	CompanyID     string
	ApplicationID string
	Status        string
	Notes         string
	DecidedBy     string
}

func (s *Service) Get(ctx context.Context, companyID, applicationID string) (Application, error) {
	if s == nil || s.Repo == nil {
		return Application{}, errors.New("applications service not configured")
	}
	return s.Repo.GetByID(ctx, companyID, applicationID)
}

func (s *Service) MarkInterviewing(ctx context.Context, companyID, applicationID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("applications service not configured")
	}
	return s.Repo.MarkInterviewing(ctx, companyID, applicationID)
}

// Decide records the hiring decision for an application.
func (s *Service) Decide(ctx context.Context, input DecisionInput) (Application, error) {
	if s == nil || s.Repo == nil || s.Evidence == nil {
		return Application{}, errors.New("applications service not configured")
	}
	input.Status = strings.TrimSpace(input.Status)
	if input.Status != StatusOfferExtended && input.Status != StatusRejected {
		return Application{}, ErrInvalidDecision
	}

	app, err := s.Repo.GetByID(ctx, input.CompanyID, input.ApplicationID)
	if err != nil {
		return Application{}, err
	}
	if app.Status == StatusWithdrawn {
		return Application{}, ErrDecisionNotAllowed
	}
	ok, err := s.Evidence.HasCompletedWithFeedback(ctx, input.CompanyID, input.ApplicationID)
	if err != nil {
		return Application{}, err
	}
	if !ok {
		return Application{}, ErrDecisionNotAllowed
	}

	now := s.now()
	notes := strings.TrimSpace(input.Notes)
	if err := s.Repo.SaveDecision(ctx, input.CompanyID, input.ApplicationID, input.Status, notes, input.DecidedBy, now); err != nil {
		return Application{}, err
	}
	telemetry.Info("application.decided", map[string]any{
		"company_id":     input.CompanyID,
		"application_id": input.ApplicationID,
		"from":           app.Status,
		"to":             input.Status,
		"decided_by":     input.DecidedBy,
	})

	app.Status = input.Status
	app.DecisionNotes = notes
	app.DecidedBy = input.DecidedBy
	at := now.UTC()
	app.DecidedAt = &at
	app.UpdatedAt = at
	return app, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
