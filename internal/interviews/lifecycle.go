package interviews

import (
	"strings"
	"time"
)

var transitions = map[string][]string{
	StatusScheduled:   {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress:  {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusRescheduled: {StatusScheduled, StatusConfirmed, StatusCancelled, StatusNoShow},
}

var displayLabels = map[string]string{
	StatusScheduled:   "Scheduled",
	StatusConfirmed:   "Confirmed",
	StatusInProgress:  "In Progress",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
	StatusRescheduled: "Rescheduled",
	StatusNoShow:      "No Show",
}

// ActiveStatuses hold the interviewer's time slot.
var ActiveStatuses = []string{StatusScheduled, StatusConfirmed, StatusInProgress, StatusRescheduled}

// UpcomingStatuses are the statuses counted as upcoming once in the future.
var UpcomingStatuses = []string{StatusScheduled, StatusConfirmed, StatusRescheduled}

func ValidStatus(status string) bool {
	_, ok := displayLabels[status]
	return ok
}

func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func IsActive(status string) bool {
	return contains(ActiveStatuses, status)
}

// CanTransition reports whether a manual status change from -> to is allowed.
func CanTransition(from, to string) bool {
	return contains(transitions[from], to)
}

// DisplayStatus is the label shown to HR. It depends on the stored status only.
func DisplayStatus(status string) string {
	if label, ok := displayLabels[status]; ok {
		return label
	}
	return status
}

// ParseStatus accepts a display label or a stored value.
func ParseStatus(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	normalized := strings.ToLower(strings.ReplaceAll(raw, " ", "_"))
	if normalized == "no-show" {
		normalized = StatusNoShow
	}
	if ValidStatus(normalized) {
		return normalized, true
	}
	for status, label := range displayLabels {
		if strings.EqualFold(label, raw) {
			return status, true
		}
	}
	return "", false
}

func CanReschedule(iv Interview) bool {
	return !IsTerminal(iv.Status) && iv.Status != StatusInProgress && !iv.HasFeedback()
}

func CanCancel(iv Interview) bool {
	return CanTransition(iv.Status, StatusCancelled)
}

// Transition applies a manual status change to iv.
func Transition(iv *Interview, to, reason string, now time.Time) error {
	if !CanTransition(iv.Status, to) {
		return ErrInvalidTransition
	}
	at := now.UTC()
	switch to {
	case StatusCancelled:
		iv.CancellationReason = strings.TrimSpace(reason)
		iv.CancelledAt = &at
	case StatusCompleted:
		iv.CompletedAt = &at
	}
	iv.Status = to
	iv.UpdatedAt = at
	return nil
}

// Reschedule moves iv to a new slot and appends one history entry. The
// status is left as it was.
func Reschedule(iv *Interview, newAt time.Time, duration int, by, reason string, now time.Time) (RescheduleEntry, error) {
	if !CanReschedule(*iv) {
		return RescheduleEntry{}, ErrNotReschedulable
	}
	if !newAt.After(now) {
		return RescheduleEntry{}, ErrPastSchedule
	}
	entry := RescheduleEntry{
		OldScheduledAt: iv.ScheduledAt.UTC(),
		NewScheduledAt: newAt.UTC(),
		RescheduledBy:  by,
		Reason:         strings.TrimSpace(reason),
		RescheduledAt:  now.UTC(),
	}
	iv.RescheduleHistory = append(iv.RescheduleHistory, entry)
	iv.ScheduledAt = newAt.UTC()
	if duration > 0 {
		iv.DurationMinutes = duration
	}
	iv.UpdatedAt = now.UTC()
	return entry, nil
}

// ApplyFeedback writes fb onto iv. It reports whether this was the first
// submission. The original submission time survives edits.
func ApplyFeedback(iv *Interview, fb Feedback, now time.Time, editWindow time.Duration) (bool, error) {
	if iv.Status == StatusCancelled || iv.Status == StatusNoShow {
		return false, ErrInvalidTransition
	}
	if now.Before(iv.ScheduledAt) {
		return false, ErrFeedbackTooEarly
	}
	at := now.UTC()
	first := !iv.HasFeedback()
	if first {
		fb.SubmittedAt = at
	} else {
		if now.Sub(iv.Feedback.SubmittedAt) > editWindow {
			return false, ErrEditWindowExpired
		}
		fb.SubmittedAt = iv.Feedback.SubmittedAt
	}
	fb.UpdatedAt = at
	iv.Feedback = &fb

	switch iv.Status {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		iv.Status = StatusCompleted
		iv.CompletedAt = &at
	}
	iv.UpdatedAt = at
	return first, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
