package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hirewise"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	interviewsScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_scheduled_total",
		Help:      "Interviews created by HR",
	})

	interviewsRescheduled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_rescheduled_total",
		Help:      "Interviews moved to a new time",
	})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_status_changes_total",
		Help:      "Interview status transitions",
	}, []string{"from", "to"})

	feedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Interviewer feedback writes",
	}, []string{"kind"})

	feedbackTurnaround = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feedback_turnaround_hours",
		Help:      "Hours between the interview start and the first feedback submission",
		Buckets:   []float64{1, 6, 24, 48, 96, 168},
	})

	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_recorded_total",
		Help:      "Day-before reminders recorded by the sweeper",
	})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Interview events sent to the queue",
	}, []string{"kind", "result"})

	eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_consumed_total",
		Help:      "Interview events handled by the worker",
	}, []string{"result"})
)

// Middleware records request count and latency labelled by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncInterviewScheduled() { interviewsScheduled.Inc() }

func IncInterviewRescheduled() { interviewsRescheduled.Inc() }

func IncStatusChange(from, to string) { statusChanges.WithLabelValues(from, to).Inc() }

// ObserveFeedback counts a feedback write. Turnaround is only recorded for
// the first submission.
func ObserveFeedback(first bool, turnaround time.Duration) {
	if !first {
		feedbackSubmissions.WithLabelValues("edit").Inc()
		return
	}
	feedbackSubmissions.WithLabelValues("first").Inc()
	hours := turnaround.Hours()
	if hours < 0 {
		hours = 0
	}
	feedbackTurnaround.Observe(hours)
}

func IncReminderRecorded() { remindersSent.Inc() }

func IncEventPublished(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	eventsPublished.WithLabelValues(kind, result).Inc()
}

func IncEventConsumed(result string) { eventsConsumed.WithLabelValues(result).Inc() }
