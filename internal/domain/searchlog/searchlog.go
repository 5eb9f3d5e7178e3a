// Package searchlog models per-day search statistics.
package searchlog

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain"
)

// DayLayout is the textual form of a date bucket.
const DayLayout = "2006-01-02"

// Day is a UTC calendar day.
type Day struct {
	t time.Time
}

// DayOf returns the UTC day containing t.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return Day{t: t}, nil
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string { return d.t.Format(DayLayout) }

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time { return d.t }

// IsZero reports whether d is unset.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Entry is the aggregated counter of one query on one day.
type Entry struct {
	Query    string
	Day      Day
	Searches int64
	Clicks   int64
}

// ClickIncrement is the clicks delta recorded for one search call.
func ClickIncrement(resultCount int) int64 {
	if resultCount > 0 {
		return 1
	}
	return 0
}
