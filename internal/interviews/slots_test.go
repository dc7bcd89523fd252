package interviews

import (
	"testing"
	"time"

	"hirewise-backend/internal/shared/util"
)

func TestFreeSlotsSkipsBusyAndPast(t *testing.T) {
	ist := util.LoadLocation("Asia/Kolkata")
	day := time.Date(2025, 9, 20, 0, 0, 0, 0, ist)
	now := time.Date(2025, 9, 20, 10, 15, 0, 0, ist)
	busy := []Interview{
		{Status: StatusScheduled, ScheduledAt: time.Date(2025, 9, 20, 11, 0, 0, 0, ist), DurationMinutes: 60},
		{Status: StatusCancelled, ScheduledAt: time.Date(2025, 9, 20, 14, 0, 0, 0, ist), DurationMinutes: 60},
	}

	slots := FreeSlots(day, ist, time.Hour, busy, now)

	starts := map[string]bool{}
	for _, s := range slots {
		starts[s.StartTime] = true
	}
	for _, blocked := range []string{"09:00", "10:00", "10:30", "11:00", "11:30"} {
		if starts[blocked] {
			t.Fatalf("slot %s must not be offered", blocked)
		}
	}
	for _, open := range []string{"12:00", "14:00", "17:00"} {
		if !starts[open] {
			t.Fatalf("expected slot %s", open)
		}
	}
	if starts["17:30"] {
		t.Fatalf("a 60 minute slot at 17:30 ends after working hours")
	}
	if slots[0].StartTime != "12:00" || slots[0].EndTime != "13:00" {
		t.Fatalf("unexpected first slot %+v", slots[0])
	}
}

func TestFreeSlotsEmptyForPastDay(t *testing.T) {
	ist := util.LoadLocation("Asia/Kolkata")
	day := time.Date(2025, 9, 19, 0, 0, 0, 0, ist)
	now := time.Date(2025, 9, 20, 8, 0, 0, 0, ist)
	if slots := FreeSlots(day, ist, 30*time.Minute, nil, now); len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}
