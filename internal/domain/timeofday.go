package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a slot time expressed as minutes since midnight. Reservation
// times always live on a venue's slot grid, so minute precision is enough.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" (and "HH:MM:SS", ignoring seconds).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
			return 0, Errorf(CodeInvalidRequest, "invalid time of day %q", s)
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, Errorf(CodeInvalidRequest, "invalid time of day %q", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

// TimeOfDayFrom truncates a wall-clock instant to minute precision.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t > other }

// Sub returns the number of minutes from other to t.
func (t TimeOfDay) Sub(other TimeOfDay) int {
	return int(t) - int(other)
}

// Microseconds converts to the representation pgtype.Time uses.
func (t TimeOfDay) Microseconds() int64 {
	return int64(t) * 60 * 1_000_000
}

func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay(us / (60 * 1_000_000))
}

// On anchors the time of day onto a calendar date in the date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return Errorf(CodeInvalidRequest, "invalid time of day %s", string(data))
	}
	parsed, err := ParseTimeOfDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
