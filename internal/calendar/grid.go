package calendar

import (
	"time"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// Day is one cell of a rendered month grid. Padding cells before the
// first and after the last day of the month have Empty set and carry a
// zero Date. For real days, Booked is the IsDateBooked answer and
// Booking is the FindCoveringBooking result (which may be non-nil even
// when Booked is false; see FindCoveringBooking).
type Day struct {
	Date    time.Time
	Empty   bool
	Booked  bool
	Booking *model.Booking
}

// Week is one grid row. BuildMonthGrid always emits weeks of exactly
// seven cells.
type Week []Day

// isoWeekday maps time.Weekday to the Monday-first index 1..7
// (Monday=1 … Sunday=7).
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// BuildMonthGrid materializes the week rows for a month. Day 1 is
// placed in its Monday-first weekday column by padding the first week
// with leading empty cells, every day of the month gets one annotated
// cell, and the last week is padded with trailing empty cells to seven.
// The result is a pure function of its inputs: calling again with the
// same month and bookings yields a structurally identical grid.
func BuildMonthGrid(m Month, bookings []model.Booking) []Week {
	first := m.First()
	days := make([]Day, 0, 42)

	for i := 1; i < isoWeekday(first); i++ {
		days = append(days, Day{Empty: true})
	}
	for d := 1; d <= m.Days(); d++ {
		date := time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC)
		days = append(days, Day{
			Date:    date,
			Booked:  IsDateBooked(date, bookings),
			Booking: FindCoveringBooking(date, bookings),
		})
	}

	var weeks []Week
	for len(days) > 0 {
		n := 7
		if len(days) < n {
			n = len(days)
		}
		weeks = append(weeks, Week(days[:n:n]))
		days = days[n:]
	}
	last := weeks[len(weeks)-1]
	for len(last) < 7 {
		last = append(last, Day{Empty: true})
	}
	weeks[len(weeks)-1] = last
	return weeks
}
