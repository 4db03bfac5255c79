// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

// Package period provides inclusive calendar date ranges, the previous-period
// arithmetic used by report comparisons, and the sidebar date presets.
package period

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for dates in requests and analytics queries.
const DateLayout = "2006-01-02"

// ErrInvalidRange is returned when a range cannot be parsed or ends before it starts.
var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive calendar date range. Start and End are normalized to
// midnight UTC.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a range from two dates, truncating both to the calendar day.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: day(start), End: day(end)}
	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	return r, nil
}

// Parse parses a range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start date %q: %v", ErrInvalidRange, start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end date %q: %v", ErrInvalidRange, end, err)
	}
	return New(s, e)
}

// Days returns the number of days in the range, both ends included.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Previous returns the range of the same length ending the day before r starts.
func (r Range) Previous() Range {
	end := r.Start.AddDate(0, 0, -1)
	return Range{Start: end.AddDate(0, 0, -(r.Days() - 1)), End: end}
}

// StartDate returns the start formatted as YYYY-MM-DD.
func (r Range) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns the end formatted as YYYY-MM-DD.
func (r Range) EndDate() string { return r.End.Format(DateLayout) }

// String returns the period label used in prompts, e.g. "2024-01-08 a 2024-01-14".
func (r Range) String() string {
	return r.StartDate() + " a " + r.EndDate()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
