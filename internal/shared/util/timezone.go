package util

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zones must resolve on minimal images
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// istFallback is used when the tz database cannot resolve a zone name.
var istFallback = time.FixedZone("IST", 5*3600+30*60)

// LoadLocation resolves an IANA zone name, falling back to a fixed UTC+05:30.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return istFallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return istFallback
	}
	return loc
}

// ValidTimezone reports whether name is a loadable IANA zone.
func ValidTimezone(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// DayBounds returns [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds returns [start, end) of the Monday-start week containing t in loc.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	dayStart, _ := DayBounds(t, loc)
	offset := (int(dayStart.Weekday()) + 6) % 7
	start := dayStart.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// CombineDateTime parses "YYYY-MM-DD" and "HH:mm" as a wall-clock time in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
	}
	return t, nil
}

// SplitDateTime formats t as separate date and time strings in loc.
func SplitDateTime(t time.Time, loc *time.Location) (string, string) {
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout)
}
