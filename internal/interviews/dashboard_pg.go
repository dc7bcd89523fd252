package interviews

import (
	"context"
	"fmt"
)

// dashboardQuery computes every counter and the turnaround buckets in one
// pass over the interviewer's rows.
//
//	$1 company  $2 interviewer  $3 now  $4/$5 this week
//	$6 last week start  $7 now minus the feedback edit window
const dashboardQuery = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE i.scheduled_at >= $3 AND i.status IN ('scheduled', 'confirmed', 'rescheduled')),
  COUNT(*) FILTER (WHERE i.status = 'completed' AND i.completed_at >= $4 AND i.completed_at < $5),
  COUNT(*) FILTER (WHERE i.status <> 'cancelled' AND i.scheduled_at >= $4 AND i.scheduled_at < $5),
  COUNT(*) FILTER (WHERE i.status <> 'cancelled' AND i.scheduled_at >= $6 AND i.scheduled_at < $4),
  COUNT(*) FILTER (WHERE i.scheduled_at < $3 AND i.status NOT IN ('cancelled', 'no_show')
                     AND i.feedback_submitted_at IS NULL AND i.scheduled_at >= $7),
  COUNT(*) FILTER (WHERE i.scheduled_at < $3 AND i.status NOT IN ('cancelled', 'no_show')
                     AND i.feedback_submitted_at >= $7),
  COUNT(*) FILTER (WHERE i.scheduled_at < $3 AND i.status NOT IN ('cancelled', 'no_show')
                     AND i.feedback_submitted_at IS NULL AND i.scheduled_at < $7),
  COUNT(*) FILTER (WHERE i.feedback_submitted_at IS NOT NULL AND t.hours < 6),
  COUNT(*) FILTER (WHERE i.feedback_submitted_at IS NOT NULL AND t.hours >= 6 AND t.hours < 24),
  COUNT(*) FILTER (WHERE i.feedback_submitted_at IS NOT NULL AND t.hours >= 24 AND t.hours < 48),
  COUNT(*) FILTER (WHERE i.feedback_submitted_at IS NOT NULL AND t.hours >= 48),
  COUNT(*) FILTER (WHERE i.feedback_submitted_at IS NOT NULL),
  COALESCE(AVG(t.hours) FILTER (WHERE i.feedback_submitted_at IS NOT NULL), 0)::float8
FROM interviews i
CROSS JOIN LATERAL (
  SELECT GREATEST(EXTRACT(EPOCH FROM (i.feedback_submitted_at - i.scheduled_at)) / 3600.0, 0)::float8 AS hours
) t
WHERE i.company_id = $1 AND i.interviewer_id = $2`

// todayQuery loads today's agenda as full rows so feedback and names match
// every other interview read.
const todayQuery = `SELECT ` + selectInterviewColumns + `
FROM interviews i
WHERE i.company_id = $1 AND i.interviewer_id = $2
  AND i.scheduled_at >= $3 AND i.scheduled_at < $4
  AND i.status NOT IN ('cancelled', 'no_show')
ORDER BY i.scheduled_at, i.id`

func (r *PGRepo) Dashboard(ctx context.Context, companyID, interviewerID string, b Bounds) (DashboardStats, error) {
	var (
		stats DashboardStats
		avg   float64
	)
	c := &stats.Counters
	t := &stats.Turnaround
	err := r.DB.QueryRowContext(ctx, dashboardQuery,
		companyID,
		interviewerID,
		b.Now.UTC(),
		b.WeekStart.UTC(),
		b.WeekEnd.UTC(),
		b.LastWeekStart.UTC(),
		b.Now.Add(-b.EditWindow).UTC(),
	).Scan(
		&c.Total,
		&c.Upcoming,
		&c.CompletedThisWeek,
		&c.ThisWeek,
		&c.LastWeek,
		&c.Unsubmitted,
		&c.EditableSubmitted,
		&c.OverdueUnsubmitted,
		&t.Under6h,
		&t.From6To24h,
		&t.From24To48h,
		&t.Over48h,
		&t.Count,
		&avg,
	)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard query: %w", err)
	}
	t.AverageHours = round1(avg)

	today, err := r.queryInterviews(ctx, todayQuery, companyID, interviewerID, b.TodayStart.UTC(), b.TodayEnd.UTC())
	if err != nil {
		return DashboardStats{}, fmt.Errorf("today agenda: %w", err)
	}
	stats.Today = today
	return stats, nil
}
