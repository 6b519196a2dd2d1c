package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/brfkastanjen/member-portal/internal/model"
)

func TestBuildMonthGridShape(t *testing.T) {
	cases := []struct {
		m            Month
		leadingEmpty int
		days         int
	}{
		// March 2024 starts on a Friday: four leading padding cells.
		{Month{2024, time.March}, 4, 31},
		// April 2024 starts on a Monday: no padding at all up front.
		{Month{2024, time.April}, 0, 30},
		// February 2024 is a leap February.
		{Month{2024, time.February}, 3, 29},
		// September 2024 starts on a Sunday, the last Monday-first column.
		{Month{2024, time.September}, 6, 30},
	}
	for _, tc := range cases {
		weeks := BuildMonthGrid(tc.m, nil)

		for i, w := range weeks {
			if len(w) != 7 {
				t.Fatalf("%v week %d has %d cells, want 7", tc.m, i, len(w))
			}
		}

		lead := 0
		for _, d := range weeks[0] {
			if !d.Empty {
				break
			}
			lead++
		}
		if lead != tc.leadingEmpty {
			t.Errorf("%v: %d leading empty cells, want %d", tc.m, lead, tc.leadingEmpty)
		}

		nonEmpty := 0
		for _, w := range weeks {
			for _, d := range w {
				if !d.Empty {
					nonEmpty++
				}
			}
		}
		if nonEmpty != tc.days {
			t.Errorf("%v: %d day cells, want %d", tc.m, nonEmpty, tc.days)
		}
	}
}

func TestBuildMonthGridDaysInOrder(t *testing.T) {
	weeks := BuildMonthGrid(Month{2024, time.March}, nil)
	want := 1
	for _, w := range weeks {
		for _, d := range w {
			if d.Empty {
				continue
			}
			if d.Date.Day() != want {
				t.Fatalf("cell out of order: got day %d, want %d", d.Date.Day(), want)
			}
			want++
		}
	}
}

func TestBuildMonthGridAnnotations(t *testing.T) {
	bookings := []model.Booking{
		booking("approved", model.BookingApproved, date(2024, time.March, 10), date(2024, time.March, 12)),
		booking("pending", model.BookingPending, date(2024, time.March, 20), date(2024, time.March, 21)),
	}
	weeks := BuildMonthGrid(Month{2024, time.March}, bookings)

	byDay := map[int]Day{}
	for _, w := range weeks {
		for _, d := range w {
			if !d.Empty {
				byDay[d.Date.Day()] = d
			}
		}
	}

	for _, day := range []int{10, 11, 12} {
		if !byDay[day].Booked {
			t.Errorf("March %d should be marked booked", day)
		}
		if byDay[day].Booking == nil || byDay[day].Booking.ID != "approved" {
			t.Errorf("March %d should carry the approved booking", day)
		}
	}
	// The pending booking annotates its days without blocking them.
	for _, day := range []int{20, 21} {
		if byDay[day].Booked {
			t.Errorf("March %d must not be booked by a pending request", day)
		}
		if byDay[day].Booking == nil || byDay[day].Booking.ID != "pending" {
			t.Errorf("March %d should still carry the pending booking as label", day)
		}
	}
	if byDay[5].Booked || byDay[5].Booking != nil {
		t.Error("March 5 should be free and unlabeled")
	}
}

func TestBuildMonthGridIdempotent(t *testing.T) {
	bookings := []model.Booking{
		booking("b1", model.BookingApproved, date(2024, time.March, 10), date(2024, time.March, 12)),
	}
	a := BuildMonthGrid(Month{2024, time.March}, bookings)
	b := BuildMonthGrid(Month{2024, time.March}, bookings)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two builds with identical inputs must be structurally identical")
	}
}

func TestMonthAdd(t *testing.T) {
	cases := []struct {
		start Month
		delta int
		want  Month
	}{
		{Month{2024, time.March}, 1, Month{2024, time.April}},
		{Month{2024, time.March}, -1, Month{2024, time.February}},
		{Month{2024, time.December}, 1, Month{2025, time.January}},
		{Month{2024, time.January}, -1, Month{2023, time.December}},
		{Month{2024, time.June}, -30, Month{2021, time.December}},
		{Month{2024, time.June}, 30, Month{2026, time.December}},
	}
	for _, tc := range cases {
		if got := tc.start.Add(tc.delta); got != tc.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tc.start, tc.delta, got, tc.want)
		}
	}

	// Navigation is unclamped: walking far enough back crosses year zero.
	if got := (Month{2, time.January}).Add(-36); got.Year != -1 {
		t.Errorf("unclamped navigation should reach year -1, got %d", got.Year)
	}
}

func TestMonthDays(t *testing.T) {
	if d := (Month{2024, time.February}).Days(); d != 29 {
		t.Errorf("Feb 2024 has %d days, want 29", d)
	}
	if d := (Month{2023, time.February}).Days(); d != 28 {
		t.Errorf("Feb 2023 has %d days, want 28", d)
	}
	if d := (Month{2024, time.March}).Days(); d != 31 {
		t.Errorf("Mar 2024 has %d days, want 31", d)
	}
}
