package calendar

import (
	"testing"
	"time"

	"github.com/brfkastanjen/member-portal/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func booking(id, status string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:        id,
		Status:    status,
		StartDate: start,
		EndDate:   end,
	}
}

func TestIsDateBookedInclusiveRange(t *testing.T) {
	bookings := []model.Booking{
		booking("b1", model.BookingApproved, date(2024, time.March, 10), date(2024, time.March, 12)),
	}

	cases := []struct {
		name string
		d    time.Time
		want bool
	}{
		{"start boundary", date(2024, time.March, 10), true},
		{"interior day", date(2024, time.March, 11), true},
		{"end boundary", date(2024, time.March, 12), true},
		{"day before", date(2024, time.March, 9), false},
		{"day after", date(2024, time.March, 13), false},
		{"late in end day", time.Date(2024, time.March, 12, 23, 30, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		if got := IsDateBooked(tc.d, bookings); got != tc.want {
			t.Errorf("%s: IsDateBooked(%v) = %v, want %v", tc.name, tc.d, got, tc.want)
		}
	}
}

func TestIsDateBookedIgnoresNonApproved(t *testing.T) {
	for _, status := range []string{model.BookingPending, model.BookingRejected, model.BookingCancelled} {
		bookings := []model.Booking{
			booking("b1", status, date(2024, time.March, 10), date(2024, time.March, 12)),
		}
		if IsDateBooked(date(2024, time.March, 11), bookings) {
			t.Errorf("status %q must not block availability", status)
		}
	}
}

func TestIsDateBookedEmptyCollection(t *testing.T) {
	if IsDateBooked(date(2024, time.March, 11), nil) {
		t.Fatal("empty collection must report free")
	}
}

func TestIsDateBookedOverlappingApproved(t *testing.T) {
	// Overlap is allowed in storage; any covering approved booking blocks.
	bookings := []model.Booking{
		booking("b1", model.BookingApproved, date(2024, time.July, 1), date(2024, time.July, 5)),
		booking("b2", model.BookingApproved, date(2024, time.July, 4), date(2024, time.July, 8)),
	}
	for d := 1; d <= 8; d++ {
		if !IsDateBooked(date(2024, time.July, d), bookings) {
			t.Errorf("July %d should be booked", d)
		}
	}
	if IsDateBooked(date(2024, time.July, 9), bookings) {
		t.Error("July 9 should be free")
	}
}

// FindCoveringBooking deliberately does not filter by status: the first
// covering booking in collection order wins even when a later approved
// booking covers the same date. The grid uses it only as a display
// label, never for the availability decision.
func TestFindCoveringBookingIgnoresStatus(t *testing.T) {
	day := date(2024, time.March, 5)
	pendingFirst := []model.Booking{
		booking("pending", model.BookingPending, day, day),
		booking("approved", model.BookingApproved, day, day),
	}
	approvedFirst := []model.Booking{
		booking("approved", model.BookingApproved, day, day),
		booking("pending", model.BookingPending, day, day),
	}

	if !IsDateBooked(day, pendingFirst) {
		t.Fatal("approved booking must block the date regardless of order")
	}
	if got := FindCoveringBooking(day, pendingFirst); got == nil || got.ID != "pending" {
		t.Fatalf("want first booking in input order (pending), got %+v", got)
	}
	if got := FindCoveringBooking(day, approvedFirst); got == nil || got.ID != "approved" {
		t.Fatalf("want first booking in input order (approved), got %+v", got)
	}
}

func TestFindCoveringBookingNone(t *testing.T) {
	bookings := []model.Booking{
		booking("b1", model.BookingApproved, date(2024, time.March, 10), date(2024, time.March, 12)),
	}
	if got := FindCoveringBooking(date(2024, time.March, 20), bookings); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
