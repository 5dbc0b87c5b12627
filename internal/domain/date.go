package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ErrInvalidDateFormat is returned when a date string matches none of the
// strict layouts and the free-form parser rejects it as well.
var ErrInvalidDateFormat = errors.New("invalid date format")

// dateLayouts are tried in order before falling back to free-form parsing.
var dateLayouts = []string{
	"2006:01:02",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// ParseDate interprets s as a calendar date at midnight UTC. The strict
// layouts are tried first; anything they reject goes through a permissive
// free-form parser so inputs like "Jan 5, 2021" still work. The returned
// error names the offending string.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}
