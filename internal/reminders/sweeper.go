package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"hirewise-backend/internal/interviews"
	"hirewise-backend/internal/queue"
	"hirewise-backend/internal/shared/metrics"
	"hirewise-backend/internal/shared/telemetry"
)

const (
	// Lead is how far ahead of an interview the day-before reminder goes out.
	Lead = 24 * time.Hour
	// BatchSize caps how many reminders a single sweep records.
	BatchSize = 200
)

// Store is the slice of interviews.Repo the sweeper needs.
type Store interface {
	DueReminders(ctx context.Context, kind string, from, to time.Time, limit int) ([]interviews.Interview, error)
	RecordReminder(ctx context.Context, interviewID, kind string, sentAt time.Time) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, kind, companyID, interviewID string)
}

// Sweeper records day-before reminders for upcoming interviews and emits
// one reminder event per newly recorded reminder.
type Sweeper struct {
	Store  Store
	Events EventPublisher
	Now    func() time.Time

	cron *cron.Cron
}

func NewSweeper(store Store, events EventPublisher) *Sweeper {
	return &Sweeper{Store: store, Events: events, Now: time.Now}
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sweep records reminders for interviews starting in (now, now+Lead].
// It returns how many reminders were recorded by this call.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	due, err := s.Store.DueReminders(ctx, interviews.ReminderDayBefore, now, now.Add(Lead), BatchSize)
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}
	recorded := 0
	for _, iv := range due {
		if err := ctx.Err(); err != nil {
			return recorded, err
		}
		created, err := s.Store.RecordReminder(ctx, iv.ID, interviews.ReminderDayBefore, now)
		if err != nil {
			telemetry.Error("reminder.record_failed", map[string]any{
				"interview_id": iv.ID,
				"company_id":   iv.CompanyID,
				"error":        err,
			})
			continue
		}
		// another sweeper got there first
		if !created {
			continue
		}
		recorded++
		metrics.IncReminderRecorded()
		if s.Events != nil {
			s.Events.Publish(ctx, queue.KindInterviewReminder, iv.CompanyID, iv.ID)
		}
	}
	if len(due) > 0 {
		telemetry.Info("reminder.sweep", map[string]any{
			"due":      len(due),
			"recorded": recorded,
		})
	}
	return recorded, nil
}

// Start schedules Sweep on a cron spec. Stop must be called to release it.
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ctx, s.now()); err != nil {
			telemetry.Error("reminder.sweep_failed", map[string]any{"error": err})
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder sweep %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	telemetry.Info("reminder.scheduler_started", map[string]any{"schedule": spec})
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	telemetry.Info("reminder.scheduler_stopped", nil)
}
