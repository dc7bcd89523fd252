package interviews

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hirewise-backend/internal/applications"
	"hirewise-backend/internal/queue"
	"hirewise-backend/internal/shared/metrics"
	"hirewise-backend/internal/shared/telemetry"
	"hirewise-backend/internal/shared/util"
	"hirewise-backend/internal/users"
)

const (
	DefaultEditWindow = 48 * time.Hour
	defaultPageSize   = 10
	maxPageSize       = 100
	exportRowLimit    = 5000
)

// ApplicationService is the part of the applications package scheduling needs.
type ApplicationService interface {
	Get(ctx context.Context, companyID, applicationID string) (applications.Application, error)
	MarkInterviewing(ctx context.Context, companyID, applicationID string) error
}

type UserDirectory interface {
	GetInCompany(ctx context.Context, companyID, userID string) (users.User, error)
}

// Zones resolves the business timezone of a company.
type Zones interface {
	Location(ctx context.Context, companyID string) *time.Location
}

type EventPublisher interface {
	Publish(ctx context.Context, kind, companyID, interviewID string)
}

// Actor is the authenticated caller of a mutation.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

type Service struct {
	Repo       Repo
	Apps       ApplicationService
	Users      UserDirectory
	Zones      Zones
	Events     EventPublisher
	EditWindow time.Duration
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) editWindow() time.Duration {
	if s.EditWindow > 0 {
		return s.EditWindow
	}
	return DefaultEditWindow
}

// Location returns the company's business timezone.
func (s *Service) Location(ctx context.Context, companyID string) *time.Location {
	if s.Zones == nil {
		return util.LoadLocation("")
	}
	return s.Zones.Location(ctx, companyID)
}

func (s *Service) publish(ctx context.Context, kind string, iv Interview) {
	if s.Events != nil {
		s.Events.Publish(ctx, kind, iv.CompanyID, iv.ID)
	}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("interviews service not configured")
	}
	return nil
}

// Schedule books a new interview for an application.
func (s *Service) Schedule(ctx context.Context, actor Actor, input ScheduleInput) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}
	if s.Apps == nil || s.Users == nil {
		return Interview{}, errors.New("interviews service not configured")
	}
	loc := s.Location(ctx, actor.CompanyID)
	at, duration, round, err := validateSchedule(input, loc)
	if err != nil {
		return Interview{}, err
	}
	now := s.now()
	if !at.After(now) {
		return Interview{}, ErrPastSchedule
	}

	app, err := s.Apps.Get(ctx, actor.CompanyID, strings.TrimSpace(input.ApplicationID))
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return Interview{}, ErrApplicationNotFound
		}
		return Interview{}, err
	}
	if app.Status == applications.StatusWithdrawn || app.Status == applications.StatusRejected {
		v := &ValidationError{}
		v.add("applicationId", "application is closed")
		return Interview{}, v
	}
	interviewer, err := s.Users.GetInCompany(ctx, actor.CompanyID, strings.TrimSpace(input.InterviewerID))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Interview{}, ErrInterviewerNotFound
		}
		return Interview{}, err
	}
	if interviewer.Role != users.RoleInterviewer {
		v := &ValidationError{}
		v.add("interviewerId", "user is not an interviewer")
		return Interview{}, v
	}

	iv := Interview{
		ID:                   uuid.NewString(),
		CompanyID:            actor.CompanyID,
		ApplicationID:        app.ID,
		InterviewerID:        interviewer.ID,
		ScheduledBy:          actor.UserID,
		CandidateName:        app.CandidateName,
		CandidateEmail:       app.CandidateEmail,
		JobTitle:             app.JobTitle,
		InterviewerName:      interviewer.FullName,
		ScheduledAt:          at.UTC(),
		DurationMinutes:      duration,
		Type:                 input.Type,
		Round:                round,
		Location:             strings.TrimSpace(input.Location),
		MeetingLink:          strings.TrimSpace(input.MeetingLink),
		Notes:                strings.TrimSpace(input.Notes),
		Status:               StatusScheduled,
		PreparationMaterials: cleanList(input.PreparationMaterials),
		CreatedAt:            now.UTC(),
		UpdatedAt:            now.UTC(),
	}
	if err := s.Repo.Create(ctx, iv); err != nil {
		return Interview{}, err
	}
	if err := s.Apps.MarkInterviewing(ctx, actor.CompanyID, app.ID); err != nil {
		telemetry.Warn("application.mark_interviewing_failed", map[string]any{
			"application_id": app.ID,
			"interview_id":   iv.ID,
			"error":          err,
		})
	}

	metrics.IncInterviewScheduled()
	telemetry.Info("interview.scheduled", map[string]any{
		"company_id":     iv.CompanyID,
		"interview_id":   iv.ID,
		"interviewer_id": iv.InterviewerID,
		"scheduled_at":   iv.ScheduledAt.Format(time.RFC3339),
	})
	s.publish(ctx, queue.KindInterviewScheduled, iv)
	return iv, nil
}

func (s *Service) Get(ctx context.Context, companyID, interviewID string) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}
	return s.Repo.Get(ctx, companyID, interviewID)
}

// GetForInterviewer hides interviews assigned to someone else.
func (s *Service) GetForInterviewer(ctx context.Context, companyID, interviewerID, interviewID string) (Interview, error) {
	iv, err := s.Get(ctx, companyID, interviewID)
	if err != nil {
		return Interview{}, err
	}
	if iv.InterviewerID != interviewerID {
		return Interview{}, ErrNotFound
	}
	return iv, nil
}

// Reschedule moves an interview to a new slot.
func (s *Service) Reschedule(ctx context.Context, actor Actor, interviewID string, input RescheduleInput) (Interview, error) {
	if err := s.ready(); err != nil {
		return Interview{}, err
	}
	iv, err := s.Repo.Get(ctx, actor.CompanyID, interviewID)
	if err != nil {
		return Interview{}, err
	}
	loc := s.Location(ctx, actor.CompanyID)
	at, duration, err := validateReschedule(input, iv.DurationMinutes, loc)
	if err != nil {
		return Interview{}, err
	}
	from := iv.Status
	entry, err := Reschedule(&iv, at, duration, actor.UserID, input.RescheduleReason, s.now())
	if err != nil {
		return Interview{}, err
	}
	if err := s.Repo.Reschedule(ctx, iv, from, entry); err != nil {
		return Interview{}, err
	}

	metrics.IncInterviewRescheduled()
	telemetry.Info("interview.rescheduled", map[string]any{
		"company_id":   iv.CompanyID,
		"interview_id": iv.ID,
		"from":         entry.OldScheduledAt.Format(time.RFC3339),
		"to":           entry.NewScheduledAt.Format(time.RFC3339),
	})
	s.publish(ctx, queue.KindInterviewRescheduled, iv)
	return iv, nil
}

// ChangeStatus applies a manual status transition. It returns the updated
// interview and the previous status.
func (s *Service) ChangeStatus(ctx context.Context, actor Actor, interviewID string, input StatusInput) (Interview, string, error) {
	if err := s.ready(); err != nil {
		return Interview{}, "", err
	}
	to, err := validateStatus(input)
	if err != nil {
		return Interview{}, "", err
	}
	iv, err := s.Repo.Get(ctx, actor.CompanyID, interviewID)
	if err != nil {
		return Interview{}, "", err
	}
	from := iv.Status
	if err := Transition(&iv, to, input.CancellationReason, s.now()); err != nil {
		return Interview{}, from, err
	}
	if err := s.Repo.UpdateStatus(ctx, iv, from); err != nil {
		return Interview{}, from, err
	}

	metrics.IncStatusChange(from, to)
	telemetry.Info("interview.status_changed", map[string]any{
		"company_id":   iv.CompanyID,
		"interview_id": iv.ID,
		"from":         from,
		"to":           to,
		"changed_by":   actor.UserID,
	})
	s.publish(ctx, queue.KindInterviewStatusChanged, iv)
	return iv, from, nil
}

// SubmitFeedback records or edits the assigned interviewer's feedback.
func (s *Service) SubmitFeedback(ctx context.Context, actor Actor, interviewID string, input FeedbackInput) (Interview, bool, error) {
	if err := s.ready(); err != nil {
		return Interview{}, false, err
	}
	fb, err := validateFeedback(input)
	if err != nil {
		return Interview{}, false, err
	}
	iv, err := s.GetForInterviewer(ctx, actor.CompanyID, actor.UserID, interviewID)
	if err != nil {
		return Interview{}, false, err
	}
	from := iv.Status
	first, err := ApplyFeedback(&iv, fb, s.now(), s.editWindow())
	if err != nil {
		return Interview{}, false, err
	}
	if err := s.Repo.SaveFeedback(ctx, iv, from); err != nil {
		return Interview{}, false, err
	}

	metrics.ObserveFeedback(first, iv.Feedback.SubmittedAt.Sub(iv.ScheduledAt))
	if from != iv.Status {
		metrics.IncStatusChange(from, iv.Status)
	}
	telemetry.Info("interview.feedback_submitted", map[string]any{
		"company_id":     iv.CompanyID,
		"interview_id":   iv.ID,
		"first":          first,
		"recommendation": fb.Recommendation,
	})
	s.publish(ctx, queue.KindFeedbackSubmitted, iv)
	return iv, first, nil
}

// HasCompletedWithFeedback lets the applications package gate decisions.
func (s *Service) HasCompletedWithFeedback(ctx context.Context, companyID, applicationID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.Repo.HasCompletedWithFeedback(ctx, companyID, applicationID)
}

// Date range filters.
const (
	RangeToday    = "today"
	RangeThisWeek = "this_week"
	RangeUpcoming = "upcoming"
	RangePast     = "past"
)

type ListParams struct {
	Page          int
	Limit         int
	Status        string
	DateRange     string
	Search        string
	InterviewerID string
	ApplicationID string
}

type Summary struct {
	TodayInterviews    int `json:"todayInterviews"`
	UpcomingInterviews int `json:"upcomingInterviews"`
}

type ListResult struct {
	Items    []Interview
	Total    int
	Page     int
	Limit    int
	Summary  Summary
	Location *time.Location
}

func (s *Service) buildQuery(companyID string, p ListParams, loc *time.Location, now time.Time) (ListQuery, error) {
	q := ListQuery{
		CompanyID:     companyID,
		InterviewerID: strings.TrimSpace(p.InterviewerID),
		ApplicationID: strings.TrimSpace(p.ApplicationID),
		Search:        strings.TrimSpace(p.Search),
		SortDesc:      true,
	}
	v := &ValidationError{}
	if strings.TrimSpace(p.Status) != "" {
		status, ok := ParseStatus(p.Status)
		if !ok {
			v.add("status", "is not a known interview status")
		} else {
			q.Statuses = []string{status}
		}
	}
	switch strings.TrimSpace(p.DateRange) {
	case "":
	case RangeToday:
		start, end := util.DayBounds(now, loc)
		q.From, q.To = &start, &end
		q.SortDesc = false
	case RangeThisWeek:
		start, end := util.WeekBounds(now, loc)
		q.From, q.To = &start, &end
		q.SortDesc = false
	case RangeUpcoming:
		from := now
		q.From = &from
		if len(q.Statuses) == 0 {
			q.Statuses = UpcomingStatuses
		}
		q.SortDesc = false
	case RangePast:
		to := now
		q.To = &to
	default:
		v.add("dateRange", "must be one of today, this_week, upcoming, past")
	}
	return q, v.orNil()
}

func pageParams(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// List returns one page of a company's interviews plus the summary counts.
func (s *Service) List(ctx context.Context, companyID string, p ListParams) (ListResult, error) {
	if err := s.ready(); err != nil {
		return ListResult{}, err
	}
	now := s.now()
	loc := s.Location(ctx, companyID)
	q, err := s.buildQuery(companyID, p, loc, now)
	if err != nil {
		return ListResult{}, err
	}
	page, limit := pageParams(p.Page, p.Limit)
	q.Limit = limit
	q.Offset = (page - 1) * limit

	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return ListResult{}, err
	}
	summary, err := s.summary(ctx, companyID, q.InterviewerID, loc, now)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Items:    items,
		Total:    total,
		Page:     page,
		Limit:    limit,
		Summary:  summary,
		Location: loc,
	}, nil
}

func (s *Service) summary(ctx context.Context, companyID, interviewerID string, loc *time.Location, now time.Time) (Summary, error) {
	start, end := util.DayBounds(now, loc)
	today, err := s.Repo.Count(ctx, ListQuery{
		CompanyID:       companyID,
		InterviewerID:   interviewerID,
		From:            &start,
		To:              &end,
		ExcludeStatuses: []string{StatusCancelled, StatusNoShow},
	})
	if err != nil {
		return Summary{}, err
	}
	upcoming, err := s.Repo.Count(ctx, ListQuery{
		CompanyID:     companyID,
		InterviewerID: interviewerID,
		From:          &now,
		Statuses:      UpcomingStatuses,
	})
	if err != nil {
		return Summary{}, err
	}
	return Summary{TodayInterviews: today, UpcomingInterviews: upcoming}, nil
}

// ExportRows returns every interview matching p, up to the export cap.
func (s *Service) ExportRows(ctx context.Context, companyID string, p ListParams) ([]Interview, *time.Location, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	loc := s.Location(ctx, companyID)
	q, err := s.buildQuery(companyID, p, loc, s.now())
	if err != nil {
		return nil, nil, err
	}
	q.Limit = exportRowLimit
	items, _, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return items, loc, nil
}

// AvailableSlots lists free start times for an interviewer on date.
func (s *Service) AvailableSlots(ctx context.Context, companyID, interviewerID, date string, duration *int) ([]Slot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	v := &ValidationError{}
	loc := s.Location(ctx, companyID)
	day, err := time.ParseInLocation(util.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		v.add("date", "must be YYYY-MM-DD")
	}
	minutes := validateDuration(v, duration, DefaultDurationMinutes)
	if err := v.orNil(); err != nil {
		return nil, err
	}
	if s.Users != nil {
		user, err := s.Users.GetInCompany(ctx, companyID, interviewerID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return nil, ErrInterviewerNotFound
			}
			return nil, err
		}
		if user.Role != users.RoleInterviewer {
			return nil, ErrInterviewerNotFound
		}
	}
	dayStart, dayEnd := util.DayBounds(day, loc)
	busy, err := s.Repo.Busy(ctx, interviewerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return FreeSlots(day, loc, time.Duration(minutes)*time.Minute, busy, s.now()), nil
}

type Dashboard struct {
	Stats      DashboardStats
	Activities []Activity
	Bounds     Bounds
	Location   *time.Location
}

// Dashboard aggregates one interviewer's workload for the current instant.
func (s *Service) Dashboard(ctx context.Context, companyID, interviewerID string) (Dashboard, error) {
	if err := s.ready(); err != nil {
		return Dashboard{}, err
	}
	loc := s.Location(ctx, companyID)
	bounds := NewBounds(s.now(), loc, s.editWindow())
	stats, err := s.Repo.Dashboard(ctx, companyID, interviewerID, bounds)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.Repo.RecentlyUpdated(ctx, companyID, interviewerID, activitySourceLimit)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Stats:      stats,
		Activities: Activities(recent, activityFeedLimit),
		Bounds:     bounds,
		Location:   loc,
	}, nil
}

// Worklist priorities.
const (
	PriorityOverdue = "overdue"
	PriorityHigh    = "high"
	PriorityNormal  = "normal"
)

type PendingItem struct {
	Interview           Interview
	HasFeedback         bool
	Editable            bool
	EditableUntil       *time.Time
	HoursSinceInterview float64
	Priority            string
}

type PendingResult struct {
	Items    []PendingItem
	Total    int
	Page     int
	Limit    int
	Location *time.Location
}

func priorityRank(p string) int {
	switch p {
	case PriorityOverdue:
		return 0
	case PriorityHigh:
		return 1
	}
	return 2
}

// PendingFeedback lists past interviews that still need or still accept
// feedback, overdue first and then oldest first.
func (s *Service) PendingFeedback(ctx context.Context, companyID, interviewerID string, page, limit int) (PendingResult, error) {
	if err := s.ready(); err != nil {
		return PendingResult{}, err
	}
	now := s.now()
	window := s.editWindow()
	openSince := now.Add(-window)
	all, _, err := s.Repo.List(ctx, ListQuery{
		CompanyID:         companyID,
		InterviewerID:     interviewerID,
		To:                &now,
		ExcludeStatuses:   []string{StatusCancelled, StatusNoShow},
		FeedbackOpenSince: &openSince,
	})
	if err != nil {
		return PendingResult{}, err
	}

	items := make([]PendingItem, 0, len(all))
	for _, iv := range all {
		since := now.Sub(iv.ScheduledAt)
		item := PendingItem{
			Interview:           iv,
			HasFeedback:         iv.HasFeedback(),
			HoursSinceInterview: round1(since.Hours()),
			Priority:            PriorityNormal,
		}
		if item.HasFeedback {
			until := iv.Feedback.SubmittedAt.Add(window)
			item.EditableUntil = &until
			item.Editable = !now.After(until)
		} else {
			item.Editable = true
			switch {
			case since > window:
				item.Priority = PriorityOverdue
			case since > 24*time.Hour:
				item.Priority = PriorityHigh
			}
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := priorityRank(items[i].Priority), priorityRank(items[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return items[i].Interview.ScheduledAt.Before(items[j].Interview.ScheduledAt)
	})

	page, limit = pageParams(page, limit)
	total := len(items)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return PendingResult{
		Items:    items[start:end],
		Total:    total,
		Page:     page,
		Limit:    limit,
		Location: s.Location(ctx, companyID),
	}, nil
}
