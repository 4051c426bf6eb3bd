package timex

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned by ParseDate for input matching no known layout.
var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDate accepts the date forms sent by browsers and API clients
// (plain dates, datetime-local values, SQL-style timestamps and RFC 3339)
// and returns the instant in UTC truncated to whole seconds.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// NormalizeDate converts t to UTC with second precision, the form dates are stored in.
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
