package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Canonical layouts used throughout the booking core. Dates and times of day
// are stored as strings in these forms; instants are time.Time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// timeInputLayouts are the accepted forms for time values crossing the API
// boundary. Everything is normalized to TimeLayout before comparison or
// storage.
var timeInputLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
}

// ParseDate parses a canonical calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeTime converts a 12-hour or 24-hour time-of-day string into the
// canonical "HH:MM:SS" form.
func NormalizeTime(s string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return "", ErrInvalidTime
	}
	for _, layout := range timeInputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", ErrInvalidTime
}

// FormatDisplay renders a canonical "HH:MM:SS" time as "h:MM AM/PM" for
// presentation. The canonical form stays the one used for matching.
func FormatDisplay(canonical string) string {
	t, err := time.Parse(TimeLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format("3:04 PM")
}

// CombineDateTime builds the scheduled instant from a canonical date and
// time-of-day pair, in the server's local time zone.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(TimeLayout, timeStr)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
}

// minuteOfDay converts a canonical "HH:MM:SS" string to minutes since
// midnight.
func minuteOfDay(canonical string) (int, error) {
	t, err := time.Parse(TimeLayout, canonical)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

// minuteToCanonical renders minutes since midnight as "HH:MM:SS".
func minuteToCanonical(m int) string {
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// dateOnly truncates an instant to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
