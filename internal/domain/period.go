package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout accepted on the API.
const DateLayout = "2006-01-02"

// Period is an inclusive calendar-date range. Build it with NewPeriod.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod normalizes start to the beginning of its day and end to the
// beginning of its day. It fails with ErrInvalidDateRange when start falls
// on a later date than end.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: startOfDay(start), End: startOfDay(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ParsePeriod parses two YYYY-MM-DD strings in loc (UTC when nil).
func ParsePeriod(start, end string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start date %q: %v", ErrInvalidDateRange, start, err)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end date %q: %v", ErrInvalidDateRange, end, err)
	}
	return NewPeriod(s, e)
}

// Validate rejects an inverted range.
func (p Period) Validate() error {
	if startOfDay(p.Start).After(startOfDay(p.End)) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange,
			p.Start.Format(DateLayout), p.End.Format(DateLayout))
	}
	return nil
}

// EndOfDay is the last instant counted in the period: End at 23:59:59.999
// in End's location.
func (p Period) EndOfDay() time.Time {
	d := startOfDay(p.End)
	return d.Add(24*time.Hour - time.Millisecond)
}

// Contains reports whether t lies in [Start 00:00, End 23:59:59.999].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(startOfDay(p.Start)) && !t.After(p.EndOfDay())
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
