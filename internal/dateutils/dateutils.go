// Package dateutils provides the civil-date operations reconciliation relies on.
// A civil date is represented as a time.Time at midnight UTC.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	time.RFC3339,
	DateLayoutWithMonth,
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats and
// returns the civil date together with the detected layout.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return Day(t), format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseOptionalDate parses dateStr, returning nil for an empty string.
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	d, _, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseOptionalTimestamp parses an RFC 3339 instant, returning nil for an empty string.
func ParseOptionalTimestamp(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("unable to parse timestamp: %s", value)
	}
	return &t, nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// FormatOptional formats an optional instant with layout, empty when nil.
func FormatOptional(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// Day truncates t to its calendar day in t's own location and returns it as
// midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a civil date by n days.
func AddDays(date time.Time, n int) time.Time {
	return Day(date).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from `from` to `to`
// (negative when `to` is earlier).
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// MinDate returns the earliest of dates, or false when there are none.
func MinDate(dates ...time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	min := dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
	}
	return min, true
}

// MaxDate returns the latest of dates, or false when there are none.
func MaxDate(dates ...time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	max := dates[0]
	for _, d := range dates[1:] {
		if d.After(max) {
			max = d
		}
	}
	return max, true
}
