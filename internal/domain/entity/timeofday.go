package entity

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

// TimeOfDay is a daily trigger normalized to hour and minute.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayOf drops everything but the hour and minute of t (in t's location).
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

// Valid reports whether the hour and minute are within a day.
func (d TimeOfDay) Valid() bool {
	return d.Hour >= 0 && d.Hour < 24 && d.Minute >= 0 && d.Minute < 60
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// Next returns the first occurrence of d strictly after now, in now's location.
// A time equal to now rolls over to the following day.
func (d TimeOfDay) Next(now time.Time) time.Time {
	y, m, day := now.Date()
	candidate := time.Date(y, m, day, d.Hour, d.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = time.Date(y, m, day+1, d.Hour, d.Minute, 0, 0, now.Location())
	}
	return candidate
}

// CronSpec renders a seconds-precision cron spec firing daily at d.
// Seconds Minutes Hours DayOfMonth Month DayOfWeek
func (d TimeOfDay) CronSpec() string {
	return fmt.Sprintf("0 %d %d * * *", d.Minute, d.Hour)
}
