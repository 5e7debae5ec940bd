package untis

import (
	"fmt"
	"strings"
	"time"
)

const (
	compactDateLayout     = "20060102"
	compactTimeLayout     = "1504"
	compactDateTimeLayout = "200601021504"
	isoDateLayout         = "2006-01-02"
)

// Compact forms come first: they are the dominant legacy encoding and the
// ISO parsers would reject them anyway.
var dateTimeLayouts = []string{
	compactDateTimeLayout,
	compactDateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	isoDateLayout,
}

// ParseDate parses a WebUntis date in compact (20250108) or ISO
// (2025-01-08) form, at midnight local time.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{compactDateLayout, isoDateLayout} {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// ParseTime parses a WebUntis time of day in compact (0805, also 805) or
// ISO (08:05, 08:05:00) form. The returned time carries only hour, minute,
// and second on the zero date.
func ParseTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	// Legacy servers strip the leading zero from times before 10:00.
	if len(trimmed) == 3 && isDigits(trimmed) {
		trimmed = "0" + trimmed
	}
	for _, layout := range []string{compactTimeLayout, "15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}

// ParseDateTime combines a date string and a time-of-day string into one
// local timestamp. An empty timeValue yields midnight.
func ParseDateTime(dateValue, timeValue string) (time.Time, error) {
	date, err := ParseDate(dateValue)
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(timeValue) == "" {
		return date, nil
	}
	clock, err := ParseTime(timeValue)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.Local), nil
}

// ParseStamp parses a full timestamp in any accepted encoding: compact
// datetime, compact date, ISO datetime with optional seconds or zone, or
// ISO date.
func ParseStamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// FormatDate renders t in the compact request form (20250108).
func FormatDate(t time.Time) string {
	return t.Format(compactDateLayout)
}

// FormatISODate renders t in the ISO request form (2025-01-08) used by the
// modern dialects.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// FormatTime renders t in the compact request form (0805).
func FormatTime(t time.Time) string {
	return t.Format(compactTimeLayout)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// DateRange is an inclusive display range of whole days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
