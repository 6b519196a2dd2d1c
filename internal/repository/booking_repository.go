package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// BookingRepo provides CRUD operations for guest-apartment bookings.
// Rows are keyed by UUID and carry whole-day DATE ranges. The
// repository converts rows into typed model.Booking values so the
// calendar engine never sees raw strings. All timestamps are UTC.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `b.id, b.user_id, b.start_date, b.end_date, b.status,
       b.guest_name, b.guest_count, b.phone, b.email, b.notes,
       b.total_price, b.payment_status, b.payment_method,
       b.created_at, b.updated_at, u.email`

// scanBooking reads one row produced by a query selecting
// bookingColumns, converting nullable columns into model fields.
func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var (
		b       model.Booking
		userID  sql.NullInt64
		phone   sql.NullString
		email   sql.NullString
		notes   sql.NullString
		method  sql.NullString
		byEmail sql.NullString
	)
	err := scan(
		&b.ID, &userID, &b.StartDate, &b.EndDate, &b.Status,
		&b.GuestName, &b.GuestCount, &phone, &email, &notes,
		&b.TotalPrice, &b.PaymentStatus, &method,
		&b.CreatedAt, &b.UpdatedAt, &byEmail,
	)
	if err != nil {
		return model.Booking{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	b.Phone = phone.String
	b.Email = email.String
	b.Notes = notes.String
	if method.Valid {
		m := method.String
		b.PaymentMethod = &m
	}
	b.BookedByEmail = byEmail.String
	return b, nil
}

// List returns every booking ordered by start date ascending, each
// joined with the creating account's email for display. That ordering
// is what the calendar page feeds into the availability engine, so
// FindCoveringBooking resolves ties by earliest start date.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM guest_apartment_bookings b
	           LEFT JOIN users u ON u.id = b.user_id
	           ORDER BY b.start_date`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM guest_apartment_bookings b
	           LEFT JOIN users u ON u.id = b.user_id
	           WHERE b.id = ?`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, q, id).Scan)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// Create inserts a new booking request. Status is forced to pending and
// the payment placeholders to their zero state regardless of input; the
// portal records but never computes payments. The generated UUID is
// returned.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (string, error) {
	id := uuid.NewString()
	const q = `INSERT INTO guest_apartment_bookings
	           (id, user_id, start_date, end_date, status, guest_name, guest_count,
	            phone, email, notes, total_price, payment_status)
	           VALUES (?,?,?,?,?,?,?,?,?,?,0,?)`
	_, err := r.DB.ExecContext(ctx, q,
		id, nullableUserID(b.UserID), dateOnly(b.StartDate), dateOnly(b.EndDate),
		model.BookingPending, b.GuestName, b.GuestCount,
		b.Phone, b.Email, b.Notes, model.PaymentPending)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces the editable fields of a booking (full-record edit
// resubmission). As on create, the payment placeholders are reset; the
// status is left untouched so an edit does not silently re-approve or
// un-approve a request. Returns ErrNotFound when the row is absent.
func (r *BookingRepo) Update(ctx context.Context, b model.Booking) error {
	const q = `UPDATE guest_apartment_bookings
	           SET start_date=?, end_date=?, guest_name=?, guest_count=?,
	               phone=?, email=?, notes=?, total_price=0, payment_status=?,
	               updated_at=NOW()
	           WHERE id=?`
	res, err := r.DB.ExecContext(ctx, q,
		dateOnly(b.StartDate), dateOnly(b.EndDate), b.GuestName, b.GuestCount,
		b.Phone, b.Email, b.Notes, model.PaymentPending, b.ID)
	if err != nil {
		return err
	}
	return checkAffectedBooking(ctx, r.DB, res, b.ID)
}

// UpdateStatus moves a booking to a new lifecycle status (admin
// approve/reject/cancel). Returns ErrNotFound when the row is absent.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE guest_apartment_bookings SET status=?, updated_at=NOW() WHERE id=?",
		status, id)
	if err != nil {
		return err
	}
	return checkAffectedBooking(ctx, r.DB, res, id)
}

// Delete removes a booking. There is no soft delete.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM guest_apartment_bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// checkAffectedBooking distinguishes a no-op update (row exists, values
// unchanged) from a missing row, since RowsAffected is zero for both.
func checkAffectedBooking(ctx context.Context, db *sql.DB, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = db.QueryRowContext(ctx,
		"SELECT 1 FROM guest_apartment_bookings WHERE id=? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func nullableUserID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}

// dateOnly formats a time as the DATE column literal, discarding any
// time-of-day component before it reaches storage.
func dateOnly(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
