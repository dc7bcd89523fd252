package workerproc

import (
	"context"
	"errors"
	"time"

	"hirewise-backend/internal/interviews"
	"hirewise-backend/internal/queue"
	"hirewise-backend/internal/shared/telemetry"
	"hirewise-backend/internal/shared/util"
	"hirewise-backend/internal/users"
)

type InterviewLoader interface {
	Get(ctx context.Context, companyID, interviewID string) (interviews.Interview, error)
	Location(ctx context.Context, companyID string) *time.Location
}

type UserDirectory interface {
	GetInCompany(ctx context.Context, companyID, userID string) (users.User, error)
}

// Notification is what a delivery channel would send for one event.
type Notification struct {
	Kind        string
	InterviewID string
	CompanyID   string
	Recipients  []string
	Subject     string
	Date        string
	Time        string
}

// Notifier resolves the recipients of an interview event. Delivery itself
// is out of scope; the resolved notification is logged and handed to Sink.
type Notifier struct {
	Interviews InterviewLoader
	Users      UserDirectory
	Sink       func(Notification)
}

func (n *Notifier) HandleEvent(ctx context.Context, msg queue.Message) error {
	iv, err := n.Interviews.Get(ctx, msg.CompanyID, msg.InterviewID)
	if errors.Is(err, interviews.ErrNotFound) {
		// gone or moved tenants; nothing to notify
		telemetry.Warn("notification.skipped", map[string]any{
			"kind":         msg.Kind,
			"interview_id": msg.InterviewID,
			"company_id":   msg.CompanyID,
			"request_id":   msg.RequestID,
		})
		return nil
	}
	if err != nil {
		return err
	}

	recipients := make([]string, 0, 2)
	if msg.Kind != queue.KindFeedbackSubmitted && iv.CandidateEmail != "" {
		recipients = append(recipients, iv.CandidateEmail)
	}
	if n.Users != nil {
		u, err := n.Users.GetInCompany(ctx, iv.CompanyID, iv.InterviewerID)
		switch {
		case err == nil && u.Email != "":
			recipients = append(recipients, u.Email)
		case err != nil && !errors.Is(err, users.ErrNotFound):
			return err
		}
	}

	date, clock := util.SplitDateTime(iv.ScheduledAt, n.Interviews.Location(ctx, iv.CompanyID))
	note := Notification{
		Kind:        msg.Kind,
		InterviewID: iv.ID,
		CompanyID:   iv.CompanyID,
		Recipients:  recipients,
		Subject:     subject(msg.Kind, iv),
		Date:        date,
		Time:        clock,
	}
	telemetry.Info("notification.ready", map[string]any{
		"kind":         note.Kind,
		"interview_id": note.InterviewID,
		"company_id":   note.CompanyID,
		"recipients":   len(note.Recipients),
		"request_id":   msg.RequestID,
	})
	if n.Sink != nil {
		n.Sink(note)
	}
	return nil
}

func subject(kind string, iv interviews.Interview) string {
	switch kind {
	case queue.KindInterviewScheduled:
		return "Interview scheduled: " + iv.JobTitle
	case queue.KindInterviewRescheduled:
		return "Interview rescheduled: " + iv.JobTitle
	case queue.KindInterviewStatusChanged:
		return "Interview " + interviews.DisplayStatus(iv.Status) + ": " + iv.JobTitle
	case queue.KindFeedbackSubmitted:
		return "Feedback recorded for " + iv.CandidateName
	case queue.KindInterviewReminder:
		return "Reminder: interview tomorrow for " + iv.JobTitle
	default:
		return iv.JobTitle
	}
}

var _ Handler = (*Notifier)(nil)
