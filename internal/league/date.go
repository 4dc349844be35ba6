package league

import (
	"strings"
	"time"
)

var gameDateLayouts = []string{
	"2.1.06",
	"2.1.2006",
}

// ParseGameDate parses an upstream game date such as "12.03.16".
// Spaces are ignored. Returns the zero time when no layout matches.
func ParseGameDate(text string) time.Time {
	text = strings.ReplaceAll(text, " ", "")
	if text == "" {
		return time.Time{}
	}
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseGameTime combines a game date and an "HH:MM" kick-off time in loc.
// A missing or malformed time yields midnight; ok is false only when the date
// itself cannot be parsed.
func ParseGameTime(date, clock string, loc *time.Location) (time.Time, bool) {
	d := ParseGameDate(date)
	if d.IsZero() {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	hour, minute := 0, 0
	if t, err := time.Parse("15:04", strings.TrimSpace(clock)); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), true
}

// Weekday returns the abbreviated weekday ("Mon") of a game date, or "".
func Weekday(date string) string {
	d := ParseGameDate(date)
	if d.IsZero() {
		return ""
	}
	return d.Format("Mon")
}
