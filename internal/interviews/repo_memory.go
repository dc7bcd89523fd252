package interviews

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu         sync.RWMutex
	interviews map[string]Interview
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{interviews: make(map[string]Interview)}
}

// conflictLocked must be called with the write lock held.
func (r *MemoryRepo) conflictLocked(iv Interview) bool {
	start, end := iv.ScheduledAt, iv.EndsAt()
	for _, other := range r.interviews {
		if other.ID == iv.ID || other.InterviewerID != iv.InterviewerID || !IsActive(other.Status) {
			continue
		}
		if other.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Create(ctx context.Context, iv Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictLocked(iv) {
		return ErrSlotConflict
	}
	now := time.Now().UTC()
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = now
	}
	if iv.UpdatedAt.IsZero() {
		iv.UpdatedAt = iv.CreatedAt
	}
	r.interviews[iv.ID] = clone(iv)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, companyID, interviewID string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.interviews[interviewID]
	if !ok || iv.CompanyID != companyID {
		return Interview{}, ErrNotFound
	}
	return clone(iv), nil
}

// storedLocked returns the stored interview if its status is still prev.
func (r *MemoryRepo) storedLocked(iv Interview, prev string) (Interview, error) {
	stored, ok := r.interviews[iv.ID]
	if !ok || stored.CompanyID != iv.CompanyID {
		return Interview{}, ErrNotFound
	}
	if stored.Status != prev {
		return Interview{}, ErrInvalidTransition
	}
	return stored, nil
}

func (r *MemoryRepo) Reschedule(ctx context.Context, iv Interview, prev string, entry RescheduleEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.storedLocked(iv, prev)
	if err != nil {
		return err
	}
	if r.conflictLocked(iv) {
		return ErrSlotConflict
	}
	stored.ScheduledAt = iv.ScheduledAt
	stored.DurationMinutes = iv.DurationMinutes
	stored.Status = iv.Status
	stored.UpdatedAt = iv.UpdatedAt
	stored.RescheduleHistory = append(stored.RescheduleHistory, entry)
	stored.Reminders = nil
	r.interviews[iv.ID] = stored
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, iv Interview, prev string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.storedLocked(iv, prev)
	if err != nil {
		return err
	}
	stored.Status = iv.Status
	stored.CancellationReason = iv.CancellationReason
	stored.CancelledAt = iv.CancelledAt
	stored.CompletedAt = iv.CompletedAt
	stored.UpdatedAt = iv.UpdatedAt
	r.interviews[iv.ID] = stored
	return nil
}

func (r *MemoryRepo) SaveFeedback(ctx context.Context, iv Interview, prev string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.storedLocked(iv, prev)
	if err != nil {
		return err
	}
	updated := clone(iv)
	stored.Feedback = updated.Feedback
	stored.Status = iv.Status
	stored.CompletedAt = iv.CompletedAt
	stored.UpdatedAt = iv.UpdatedAt
	r.interviews[iv.ID] = stored
	return nil
}

func (q ListQuery) matches(iv Interview) bool {
	if iv.CompanyID != q.CompanyID {
		return false
	}
	if q.InterviewerID != "" && iv.InterviewerID != q.InterviewerID {
		return false
	}
	if q.ApplicationID != "" && iv.ApplicationID != q.ApplicationID {
		return false
	}
	if len(q.Statuses) > 0 && !contains(q.Statuses, iv.Status) {
		return false
	}
	if contains(q.ExcludeStatuses, iv.Status) {
		return false
	}
	if q.From != nil && iv.ScheduledAt.Before(*q.From) {
		return false
	}
	if q.To != nil && !iv.ScheduledAt.Before(*q.To) {
		return false
	}
	if q.FeedbackOpenSince != nil && iv.HasFeedback() && iv.Feedback.SubmittedAt.Before(*q.FeedbackOpenSince) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !strings.Contains(strings.ToLower(iv.CandidateName), term) &&
			!strings.Contains(strings.ToLower(iv.JobTitle), term) &&
			!strings.Contains(strings.ToLower(iv.InterviewerName), term) {
			return false
		}
	}
	return true
}

func (r *MemoryRepo) filter(q ListQuery) []Interview {
	var out []Interview
	for _, iv := range r.interviews {
		if q.matches(iv) {
			out = append(out, clone(iv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			if q.SortDesc {
				return a.ScheduledAt.After(b.ScheduledAt)
			}
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (r *MemoryRepo) List(ctx context.Context, q ListQuery) ([]Interview, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.filter(q)
	total := len(all)
	if q.Offset > 0 {
		if q.Offset >= len(all) {
			return []Interview{}, total, nil
		}
		all = all[q.Offset:]
	}
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, total, nil
}

func (r *MemoryRepo) Count(ctx context.Context, q ListQuery) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, iv := range r.interviews {
		if q.matches(iv) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) Busy(ctx context.Context, interviewerID string, from, to time.Time) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Interview
	for _, iv := range r.interviews {
		if iv.InterviewerID == interviewerID && IsActive(iv.Status) && iv.Overlaps(from, to) {
			out = append(out, clone(iv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *MemoryRepo) byInterviewer(companyID, interviewerID string) []Interview {
	var out []Interview
	for _, iv := range r.interviews {
		if iv.CompanyID == companyID && iv.InterviewerID == interviewerID {
			out = append(out, clone(iv))
		}
	}
	return out
}

func (r *MemoryRepo) Dashboard(ctx context.Context, companyID, interviewerID string, b Bounds) (DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return DashboardStats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Aggregate(r.byInterviewer(companyID, interviewerID), b), nil
}

func (r *MemoryRepo) RecentlyUpdated(ctx context.Context, companyID, interviewerID string, limit int) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.byInterviewer(companyID, interviewerID)
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, iv := range r.interviews {
		if iv.CompanyID == companyID && iv.ApplicationID == applicationID && iv.Status == StatusCompleted && iv.HasFeedback() {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) DueReminders(ctx context.Context, kind string, from, to time.Time, limit int) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Interview
	for _, iv := range r.interviews {
		if iv.Status != StatusScheduled && iv.Status != StatusConfirmed {
			continue
		}
		if !iv.ScheduledAt.After(from) || iv.ScheduledAt.After(to) || iv.HasReminder(kind) {
			continue
		}
		out = append(out, clone(iv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) RecordReminder(ctx context.Context, interviewID, kind string, sentAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[interviewID]
	if !ok {
		return false, ErrNotFound
	}
	if iv.HasReminder(kind) {
		return false, nil
	}
	iv.Reminders = append(iv.Reminders, Reminder{Kind: kind, SentAt: sentAt.UTC()})
	r.interviews[interviewID] = iv
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
