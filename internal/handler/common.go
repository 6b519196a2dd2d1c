package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// dateLayout is the wire format for calendar dates; time-of-day never
// crosses the API boundary for DATE-valued fields.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id placed in the context by JWTAuth and
// converts it to uint64. JWT numeric claims decode as float64, hence
// the type switch.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseDate validates a wire date and returns it as midnight UTC.
// Malformed dates are stopped here so the calendar engine only ever
// sees well-formed values.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// bookingResp is the booking record shape produced and consumed by the
// API, mirroring the stored row.
type bookingResp struct {
	ID            string  `json:"id"`
	UserID        *uint64 `json:"user_id,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Status        string  `json:"status"`
	GuestName     string  `json:"guest_name"`
	GuestCount    int     `json:"guest_count"`
	Phone         string  `json:"phone,omitempty"`
	Email         string  `json:"email,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	TotalPrice    int     `json:"total_price"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	BookedBy      string  `json:"booked_by,omitempty"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:            b.ID,
		UserID:        b.UserID,
		StartDate:     b.StartDate.UTC().Format(dateLayout),
		EndDate:       b.EndDate.UTC().Format(dateLayout),
		Status:        b.Status,
		GuestName:     b.GuestName,
		GuestCount:    b.GuestCount,
		Phone:         b.Phone,
		Email:         b.Email,
		Notes:         b.Notes,
		TotalPrice:    b.TotalPrice,
		PaymentStatus: b.PaymentStatus,
		PaymentMethod: b.PaymentMethod,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.UTC().Format(time.RFC3339),
		BookedBy:      b.BookedByEmail,
	}
}
