// Package calendar implements the availability engine for the shared
// guest apartment: it decides whether a calendar date is occupied by an
// approved booking and renders a Monday-first month grid annotated with
// that availability. Everything in this package is a pure function over
// data the caller has already loaded; there is no I/O and no state kept
// between calls.
package calendar

import "time"

// Month identifies a displayed calendar month. It is the value the UI
// navigates with; the engine never stores or clamps it, so repeated
// Add(-1)/Add(1) can walk arbitrarily far in either direction.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Add returns the month delta months away. The arithmetic relies on
// time.Date normalizing out-of-range month values, so delta may be any
// integer.
func (m Month) Add(delta int) Month {
	t := time.Date(m.Year, m.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t)
}

// First returns midnight UTC on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int {
	// Day zero of the following month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
