package models

import (
	"fmt"
	"time"
)

// DayLayout is the YYYY-MM-DD form every once-per-day gate compares.
const DayLayout = "2006-01-02"

// Day is a local calendar day with no time of day attached.
type Day string

// DayOf returns the calendar day of t in loc. A nil loc means t's own location.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	return Day(t.Format(DayLayout))
}

// ParseDay validates s as a YYYY-MM-DD day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

func (d Day) String() string {
	return string(d)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayLayout, string(d), loc)
}
