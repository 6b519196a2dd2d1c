package model

import "time"

// Booking status values for the shared guest apartment. Only approved
// bookings occupy calendar dates; pending requests are shown but never
// block availability.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
)

// Payment status values recorded on a booking. The portal stores these
// fields but performs no pricing: every insert and edit resets the
// payment state to pending with a zero total.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Booking represents a reservation of the guest apartment as stored in
// the `guest_apartment_bookings` table. Start and end dates are whole
// calendar days (DATE columns) and the range is inclusive at both ends:
// a booking from the 10th to the 12th occupies the 10th, 11th and 12th.
//
// Fields:
//  ID            – CHAR(36) UUID primary key.
//  UserID        – account that created the booking (nullable).
//  StartDate     – first occupied day, truncated to midnight UTC.
//  EndDate       – last occupied day, truncated to midnight UTC.
//  Status        – pending | approved | rejected | cancelled.
//  GuestName     – name of the visiting guest.
//  GuestCount    – number of guests, at least 1.
//  Phone         – optional contact phone.
//  Email         – optional contact email.
//  Notes         – optional free-text message to the board.
//  TotalPrice    – stored placeholder, always 0.
//  PaymentStatus – stored placeholder, always pending on write.
//  PaymentMethod – card | bank_transfer, nullable and unused.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
//  BookedByEmail – email of the creating account, joined from users for
//                  display when no guest name is supplied.
type Booking struct {
	ID            string    // guest_apartment_bookings.id
	UserID        *uint64   // guest_apartment_bookings.user_id (nullable)
	StartDate     time.Time // guest_apartment_bookings.start_date
	EndDate       time.Time // guest_apartment_bookings.end_date
	Status        string    // guest_apartment_bookings.status
	GuestName     string    // guest_apartment_bookings.guest_name
	GuestCount    int       // guest_apartment_bookings.guest_count
	Phone         string    // guest_apartment_bookings.phone
	Email         string    // guest_apartment_bookings.email
	Notes         string    // guest_apartment_bookings.notes
	TotalPrice    int       // guest_apartment_bookings.total_price
	PaymentStatus string    // guest_apartment_bookings.payment_status
	PaymentMethod *string   // guest_apartment_bookings.payment_method (nullable)
	CreatedAt     time.Time // guest_apartment_bookings.created_at
	UpdatedAt     time.Time // guest_apartment_bookings.updated_at
	BookedByEmail string    // users.email via user_id join (display only)
}
