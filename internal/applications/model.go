package applications

import (
	"errors"
	"time"
)

const (
	StatusApplied       = "applied"
	StatusScreening     = "screening"
	StatusInterviewing  = "interviewing"
	StatusOfferExtended = "offer_extended"
	StatusRejected      = "rejected"
	StatusWithdrawn     = "withdrawn"
)

const (
	JobOpen   = "open"
	JobClosed = "closed"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrDecisionNotAllowed means the application has no completed interview
	// with feedback, or was withdrawn.
	ErrDecisionNotAllowed = errors.New("decision not allowed")
	ErrInvalidDecision    = errors.New("decision must be offer_extended or rejected")
)

type Job struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	Title      string    `json:"title"`
	Department string    `json:"department,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Application struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"companyId"`
	JobID          string     `json:"jobId"`
	JobTitle       string     `json:"jobTitle"`
	ApplicantID    string     `json:"applicantId,omitempty"`
	CandidateName  string     `json:"candidateName"`
	CandidateEmail string     `json:"candidateEmail"`
	Status         string     `json:"status"`
	DecisionNotes  string     `json:"decisionNotes,omitempty"`
	DecidedBy      string     `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time `json:"decidedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
