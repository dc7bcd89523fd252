package interviews

import (
	"time"

	"hirewise-backend/internal/shared/util"
)

const (
	workdayStartHour = 9
	workdayEndHour   = 18
	slotStep         = 30 * time.Minute
)

type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FreeSlots lists start times on a 30 minute grid inside working hours of
// day (any instant on the wanted calendar day in loc). A slot must finish by
// the end of the working day, start after now and not overlap busy.
func FreeSlots(day time.Time, loc *time.Location, duration time.Duration, busy []Interview, now time.Time) []Slot {
	dayStart, _ := util.DayBounds(day, loc)
	local := dayStart.In(loc)
	open := time.Date(local.Year(), local.Month(), local.Day(), workdayStartHour, 0, 0, 0, loc)
	closeAt := time.Date(local.Year(), local.Month(), local.Day(), workdayEndHour, 0, 0, 0, loc)

	slots := []Slot{}
	for start := open; !start.Add(duration).After(closeAt); start = start.Add(slotStep) {
		if !start.After(now) {
			continue
		}
		end := start.Add(duration)
		free := true
		for _, iv := range busy {
			if IsActive(iv.Status) && iv.Overlaps(start, end) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, Slot{
				StartTime: start.In(loc).Format(util.TimeLayout),
				EndTime:   end.In(loc).Format(util.TimeLayout),
			})
		}
	}
	return slots
}
