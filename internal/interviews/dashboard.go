package interviews

import (
	"math"
	"sort"
	"time"

	"hirewise-backend/internal/shared/util"
)

// Bounds fixes the calendar windows of one dashboard request.
type Bounds struct {
	Now           time.Time
	TodayStart    time.Time
	TodayEnd      time.Time
	WeekStart     time.Time
	WeekEnd       time.Time
	LastWeekStart time.Time
	EditWindow    time.Duration
}

// NewBounds computes day and Monday-start week windows of now in loc.
func NewBounds(now time.Time, loc *time.Location, editWindow time.Duration) Bounds {
	todayStart, todayEnd := util.DayBounds(now, loc)
	weekStart, weekEnd := util.WeekBounds(now, loc)
	return Bounds{
		Now:           now,
		TodayStart:    todayStart,
		TodayEnd:      todayEnd,
		WeekStart:     weekStart,
		WeekEnd:       weekEnd,
		LastWeekStart: weekStart.AddDate(0, 0, -7),
		EditWindow:    editWindow,
	}
}

type Counters struct {
	Total              int `json:"total"`
	Upcoming           int `json:"upcoming"`
	CompletedThisWeek  int `json:"completedThisWeek"`
	ThisWeek           int `json:"thisWeek"`
	LastWeek           int `json:"lastWeek"`
	Unsubmitted        int `json:"unsubmitted"`
	EditableSubmitted  int `json:"editableSubmitted"`
	OverdueUnsubmitted int `json:"overdueUnsubmitted"`
}

type TurnaroundBuckets struct {
	Under6h      int     `json:"under6h"`
	From6To24h   int     `json:"from6to24h"`
	From24To48h  int     `json:"from24to48h"`
	Over48h      int     `json:"over48h"`
	Count        int     `json:"count"`
	AverageHours float64 `json:"averageHours"`
}

func (t *TurnaroundBuckets) add(hours float64) {
	switch {
	case hours < 6:
		t.Under6h++
	case hours < 24:
		t.From6To24h++
	case hours < 48:
		t.From24To48h++
	default:
		t.Over48h++
	}
}

// DashboardStats is what the repository computes for one interviewer.
type DashboardStats struct {
	Today      []Interview
	Counters   Counters
	Turnaround TurnaroundBuckets
}

// turnaroundHours is never negative.
func turnaroundHours(iv Interview) float64 {
	hours := iv.Feedback.SubmittedAt.Sub(iv.ScheduledAt).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Aggregate folds one interviewer's interviews into dashboard statistics.
func Aggregate(all []Interview, b Bounds) DashboardStats {
	var stats DashboardStats
	var turnaroundTotal float64
	for _, iv := range all {
		stats.Counters.Total++
		excluded := iv.Status == StatusCancelled || iv.Status == StatusNoShow

		if within(iv.ScheduledAt, b.TodayStart, b.TodayEnd) && !excluded {
			stats.Today = append(stats.Today, iv)
		}
		if !iv.ScheduledAt.Before(b.Now) && contains(UpcomingStatuses, iv.Status) {
			stats.Counters.Upcoming++
		}
		if iv.Status == StatusCompleted && iv.CompletedAt != nil && within(*iv.CompletedAt, b.WeekStart, b.WeekEnd) {
			stats.Counters.CompletedThisWeek++
		}
		if iv.Status != StatusCancelled {
			if within(iv.ScheduledAt, b.WeekStart, b.WeekEnd) {
				stats.Counters.ThisWeek++
			}
			if within(iv.ScheduledAt, b.LastWeekStart, b.WeekStart) {
				stats.Counters.LastWeek++
			}
		}

		if iv.ScheduledAt.Before(b.Now) && !excluded {
			switch {
			case !iv.HasFeedback() && b.Now.Sub(iv.ScheduledAt) <= b.EditWindow:
				stats.Counters.Unsubmitted++
			case !iv.HasFeedback():
				stats.Counters.OverdueUnsubmitted++
			case b.Now.Sub(iv.Feedback.SubmittedAt) <= b.EditWindow:
				stats.Counters.EditableSubmitted++
			}
		}

		if iv.HasFeedback() {
			hours := turnaroundHours(iv)
			stats.Turnaround.add(hours)
			stats.Turnaround.Count++
			turnaroundTotal += hours
		}
	}
	if stats.Turnaround.Count > 0 {
		stats.Turnaround.AverageHours = round1(turnaroundTotal / float64(stats.Turnaround.Count))
	}
	sort.SliceStable(stats.Today, func(i, j int) bool {
		return stats.Today[i].ScheduledAt.Before(stats.Today[j].ScheduledAt)
	})
	return stats
}

// ChangePercent compares this week to last week.
func ChangePercent(thisWeek, lastWeek int) float64 {
	if lastWeek == 0 {
		if thisWeek > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(thisWeek-lastWeek) / float64(lastWeek) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Activity kinds in the recent feed.
const (
	ActivityScheduled         = "scheduled"
	ActivityRescheduled       = "rescheduled"
	ActivityCancelled         = "cancelled"
	ActivityCompleted         = "completed"
	ActivityFeedbackSubmitted = "feedback_submitted"
)

const (
	activitySourceLimit = 120
	activityFeedLimit   = 10
)

type Activity struct {
	Type          string    `json:"type"`
	InterviewID   string    `json:"interviewId"`
	CandidateName string    `json:"candidateName"`
	JobTitle      string    `json:"jobTitle"`
	Message       string    `json:"message"`
	At            time.Time `json:"at"`
}

// Activities derives the feed from timestamps already stored on each
// interview, newest first.
func Activities(ivs []Interview, limit int) []Activity {
	var out []Activity
	for _, iv := range ivs {
		add := func(kind string, at time.Time, message string) {
			if at.IsZero() {
				return
			}
			out = append(out, Activity{
				Type:          kind,
				InterviewID:   iv.ID,
				CandidateName: iv.CandidateName,
				JobTitle:      iv.JobTitle,
				Message:       message,
				At:            at.UTC(),
			})
		}
		subject := iv.CandidateName
		if iv.JobTitle != "" {
			subject += " (" + iv.JobTitle + ")"
		}
		add(ActivityScheduled, iv.CreatedAt, "Interview scheduled with "+subject)
		for _, entry := range iv.RescheduleHistory {
			add(ActivityRescheduled, entry.RescheduledAt, "Interview with "+subject+" was rescheduled")
		}
		if iv.CancelledAt != nil {
			add(ActivityCancelled, *iv.CancelledAt, "Interview with "+subject+" was cancelled")
		}
		if iv.CompletedAt != nil {
			add(ActivityCompleted, *iv.CompletedAt, "Interview with "+subject+" completed")
		}
		if iv.HasFeedback() {
			add(ActivityFeedbackSubmitted, iv.Feedback.SubmittedAt, "Feedback submitted for "+subject)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
