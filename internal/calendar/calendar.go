package calendar

import (
	"time"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// startOfDay returns midnight UTC on the calendar day of t.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last instant of the calendar day of t.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// covers reports whether the booking's inclusive whole-day range
// [start-of-day(StartDate), end-of-day(EndDate)] contains date.
func covers(b *model.Booking, date time.Time) bool {
	s := startOfDay(b.StartDate)
	e := endOfDay(b.EndDate)
	return !date.Before(s) && !date.After(e)
}

// IsDateBooked reports whether date falls inside an approved booking.
// Both endpoints count: a booking from the 10th to the 12th blocks the
// 10th, 11th and 12th. Bookings in any other status never block, and an
// empty collection always yields false.
func IsDateBooked(date time.Time, bookings []model.Booking) bool {
	for i := range bookings {
		if bookings[i].Status != model.BookingApproved {
			continue
		}
		if covers(&bookings[i], date) {
			return true
		}
	}
	return false
}

// FindCoveringBooking returns the first booking in collection order
// whose range covers date, or nil when none does. Unlike IsDateBooked
// it does NOT filter by status: a pending or rejected booking can be
// returned as the occupant label for a date that IsDateBooked considers
// free. That asymmetry is deliberate: callers rely on it to show
// tentative requests on the grid.
func FindCoveringBooking(date time.Time, bookings []model.Booking) *model.Booking {
	for i := range bookings {
		if covers(&bookings[i], date) {
			return &bookings[i]
		}
	}
	return nil
}
