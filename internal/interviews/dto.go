package interviews

import (
	"time"

	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/shared/util"
)

type historyResponse struct {
	OldDate       string    `json:"oldDate"`
	OldTime       string    `json:"oldTime"`
	NewDate       string    `json:"newDate"`
	NewTime       string    `json:"newTime"`
	RescheduledBy string    `json:"rescheduledBy"`
	Reason        string    `json:"reason,omitempty"`
	RescheduledAt time.Time `json:"rescheduledAt"`
}

type interviewResponse struct {
	ID                   string            `json:"id"`
	CompanyID            string            `json:"companyId"`
	ApplicationID        string            `json:"applicationId"`
	InterviewerID        string            `json:"interviewerId"`
	ScheduledBy          string            `json:"scheduledBy"`
	CandidateName        string            `json:"candidateName"`
	CandidateEmail       string            `json:"candidateEmail"`
	JobTitle             string            `json:"jobTitle"`
	InterviewerName      string            `json:"interviewerName"`
	ScheduledAt          time.Time         `json:"scheduledAt"`
	ScheduledDate        string            `json:"scheduledDate"`
	ScheduledTime        string            `json:"scheduledTime"`
	EndTime              string            `json:"endTime"`
	Duration             int               `json:"duration"`
	Type                 string            `json:"type"`
	Round                int               `json:"round"`
	Location             string            `json:"location,omitempty"`
	MeetingLink          string            `json:"meetingLink,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	Status               string            `json:"status"`
	DisplayStatus        string            `json:"displayStatus"`
	CancellationReason   string            `json:"cancellationReason,omitempty"`
	CancelledAt          *time.Time        `json:"cancelledAt,omitempty"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"`
	Feedback             *Feedback         `json:"feedback,omitempty"`
	HasFeedback          bool              `json:"hasFeedback"`
	CanReschedule        bool              `json:"canReschedule"`
	CanCancel            bool              `json:"canCancel"`
	RescheduleHistory    []historyResponse `json:"rescheduleHistory"`
	Reminders            []Reminder        `json:"reminders"`
	PreparationMaterials []string          `json:"preparationMaterials"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

func toResponse(iv Interview, loc *time.Location) interviewResponse {
	date, clock := util.SplitDateTime(iv.ScheduledAt, loc)
	_, end := util.SplitDateTime(iv.EndsAt(), loc)
	history := make([]historyResponse, 0, len(iv.RescheduleHistory))
	for _, entry := range iv.RescheduleHistory {
		oldDate, oldTime := util.SplitDateTime(entry.OldScheduledAt, loc)
		newDate, newTime := util.SplitDateTime(entry.NewScheduledAt, loc)
		history = append(history, historyResponse{
			OldDate:       oldDate,
			OldTime:       oldTime,
			NewDate:       newDate,
			NewTime:       newTime,
			RescheduledBy: entry.RescheduledBy,
			Reason:        entry.Reason,
			RescheduledAt: entry.RescheduledAt,
		})
	}
	reminders := iv.Reminders
	if reminders == nil {
		reminders = []Reminder{}
	}
	materials := iv.PreparationMaterials
	if materials == nil {
		materials = []string{}
	}
	return interviewResponse{
		ID:                   iv.ID,
		CompanyID:            iv.CompanyID,
		ApplicationID:        iv.ApplicationID,
		InterviewerID:        iv.InterviewerID,
		ScheduledBy:          iv.ScheduledBy,
		CandidateName:        iv.CandidateName,
		CandidateEmail:       iv.CandidateEmail,
		JobTitle:             iv.JobTitle,
		InterviewerName:      iv.InterviewerName,
		ScheduledAt:          iv.ScheduledAt.UTC(),
		ScheduledDate:        date,
		ScheduledTime:        clock,
		EndTime:              end,
		Duration:             iv.DurationMinutes,
		Type:                 iv.Type,
		Round:                iv.Round,
		Location:             iv.Location,
		MeetingLink:          iv.MeetingLink,
		Notes:                iv.Notes,
		Status:               iv.Status,
		DisplayStatus:        DisplayStatus(iv.Status),
		CancellationReason:   iv.CancellationReason,
		CancelledAt:          iv.CancelledAt,
		CompletedAt:          iv.CompletedAt,
		Feedback:             iv.Feedback,
		HasFeedback:          iv.HasFeedback(),
		CanReschedule:        CanReschedule(iv),
		CanCancel:            CanCancel(iv),
		RescheduleHistory:    history,
		Reminders:            reminders,
		PreparationMaterials: materials,
		CreatedAt:            iv.CreatedAt,
		UpdatedAt:            iv.UpdatedAt,
	}
}

func toResponses(ivs []Interview, loc *time.Location) []interviewResponse {
	out := make([]interviewResponse, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, toResponse(iv, loc))
	}
	return out
}

type listResponse struct {
	Interviews []interviewResponse `json:"interviews"`
	Pagination respond.Pagination  `json:"pagination"`
	Summary    Summary             `json:"summary"`
}

func newListResponse(res ListResult) listResponse {
	return listResponse{
		Interviews: toResponses(res.Items, res.Location),
		Pagination: respond.NewPagination(res.Page, res.Limit, res.Total),
		Summary:    res.Summary,
	}
}

type dashboardSummary struct {
	TotalInterviews    int `json:"totalInterviews"`
	UpcomingInterviews int `json:"upcomingInterviews"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	PendingFeedback    int `json:"pendingFeedback"`
}

type dashboardMetrics struct {
	FeedbackSubmitted      int     `json:"feedbackSubmitted"`
	AverageTurnaroundHours float64 `json:"averageTurnaroundHours"`
}

type weekComparison struct {
	ThisWeek      int     `json:"thisWeek"`
	LastWeek      int     `json:"lastWeek"`
	ChangePercent float64 `json:"changePercent"`
}

type pendingSegments struct {
	Unsubmitted        int `json:"unsubmitted"`
	EditableSubmitted  int `json:"editableSubmitted"`
	OverdueUnsubmitted int `json:"overdueUnsubmitted"`
	TotalPending       int `json:"totalPending"`
}

type dashboardResponse struct {
	Summary                   dashboardSummary    `json:"summary"`
	TodaysInterviews          []interviewResponse `json:"todaysInterviews"`
	Metrics                   dashboardMetrics    `json:"metrics"`
	WeekComparison            weekComparison      `json:"weekComparison"`
	FeedbackTurnaroundBuckets TurnaroundBuckets   `json:"feedbackTurnaroundBuckets"`
	PendingSegments           pendingSegments     `json:"pendingSegments"`
	RecentActivities          []Activity          `json:"recentActivities"`
	Timezone                  string              `json:"timezone"`
	GeneratedAt               time.Time           `json:"generatedAt"`
}

func newDashboardResponse(d Dashboard) dashboardResponse {
	c := d.Stats.Counters
	activities := d.Activities
	if activities == nil {
		activities = []Activity{}
	}
	return dashboardResponse{
		Summary: dashboardSummary{
			TotalInterviews:    c.Total,
			UpcomingInterviews: c.Upcoming,
			CompletedThisWeek:  c.CompletedThisWeek,
			PendingFeedback:    c.Unsubmitted + c.OverdueUnsubmitted,
		},
		TodaysInterviews: toResponses(d.Stats.Today, d.Location),
		Metrics: dashboardMetrics{
			FeedbackSubmitted:      d.Stats.Turnaround.Count,
			AverageTurnaroundHours: d.Stats.Turnaround.AverageHours,
		},
		WeekComparison: weekComparison{
			ThisWeek:      c.ThisWeek,
			LastWeek:      c.LastWeek,
			ChangePercent: ChangePercent(c.ThisWeek, c.LastWeek),
		},
		FeedbackTurnaroundBuckets: d.Stats.Turnaround,
		PendingSegments: pendingSegments{
			Unsubmitted:        c.Unsubmitted,
			EditableSubmitted:  c.EditableSubmitted,
			OverdueUnsubmitted: c.OverdueUnsubmitted,
			TotalPending:       c.Unsubmitted + c.EditableSubmitted + c.OverdueUnsubmitted,
		},
		RecentActivities: activities,
		Timezone:         d.Location.String(),
		GeneratedAt:      d.Bounds.Now.UTC(),
	}
}

type pendingItemResponse struct {
	interviewResponse
	Editable            bool       `json:"editable"`
	EditableUntil       *time.Time `json:"editableUntil"`
	HoursSinceInterview float64    `json:"hoursSinceInterview"`
	Priority            string     `json:"priority"`
}

type pendingResponse struct {
	Interviews []pendingItemResponse `json:"interviews"`
	Pagination respond.Pagination    `json:"pagination"`
}

func newPendingResponse(res PendingResult) pendingResponse {
	items := make([]pendingItemResponse, 0, len(res.Items))
	for _, item := range res.Items {
		items = append(items, pendingItemResponse{
			interviewResponse:   toResponse(item.Interview, res.Location),
			Editable:            item.Editable,
			EditableUntil:       item.EditableUntil,
			HoursSinceInterview: item.HoursSinceInterview,
			Priority:            item.Priority,
		})
	}
	return pendingResponse{
		Interviews: items,
		Pagination: respond.NewPagination(res.Page, res.Limit, res.Total),
	}
}
