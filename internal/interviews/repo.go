package interviews

import (
	"context"
	"time"
)

// ListQuery filters interviews within one company. Zero values disable a
// filter. Limit 0 returns every match.
type ListQuery struct {
	CompanyID       string
	InterviewerID   string
	ApplicationID   string
	Statuses        []string
	ExcludeStatuses []string
	From            *time.Time // scheduledAt >= From
	To              *time.Time // scheduledAt < To
	// FeedbackOpenSince keeps interviews with no feedback or feedback
	// submitted at or after the given instant.
	FeedbackOpenSince *time.Time
	Search            string
	SortDesc          bool
	Limit             int
	Offset            int
}

type Repo interface {
	// Create stores a new interview. It fails with ErrSlotConflict when the
	// interviewer already has an overlapping active interview.
	Create(ctx context.Context, iv Interview) error
	Get(ctx context.Context, companyID, interviewID string) (Interview, error)
	// The write methods below apply only while the stored status still
	// equals prev and fail with ErrInvalidTransition otherwise.

	// Reschedule persists the new slot and history entry with the same
	// overlap guarantee as Create. Recorded reminders are cleared.
	Reschedule(ctx context.Context, iv Interview, prev string, entry RescheduleEntry) error
	UpdateStatus(ctx context.Context, iv Interview, prev string) error
	SaveFeedback(ctx context.Context, iv Interview, prev string) error

	List(ctx context.Context, q ListQuery) ([]Interview, int, error)
	Count(ctx context.Context, q ListQuery) (int, error)
	// Busy returns the interviewer's active interviews overlapping [from, to).
	Busy(ctx context.Context, interviewerID string, from, to time.Time) ([]Interview, error)

	Dashboard(ctx context.Context, companyID, interviewerID string, b Bounds) (DashboardStats, error)
	RecentlyUpdated(ctx context.Context, companyID, interviewerID string, limit int) ([]Interview, error)

	HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error)

	// DueReminders returns scheduled or confirmed interviews starting in
	// (from, to] that have no reminder of kind yet, across all companies.
	DueReminders(ctx context.Context, kind string, from, to time.Time, limit int) ([]Interview, error)
	// RecordReminder returns false when the reminder already existed.
	RecordReminder(ctx context.Context, interviewID, kind string, sentAt time.Time) (bool, error)
}
