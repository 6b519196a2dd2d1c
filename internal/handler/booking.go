package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/calendar"
	"github.com/brfkastanjen/member-portal/internal/model"
	"github.com/brfkastanjen/member-portal/internal/queue"
	"github.com/brfkastanjen/member-portal/internal/repository"
	queue_publisher "github.com/brfkastanjen/member-portal/internal/service"
)

// BookingHandler serves the guest-apartment booking endpoints: the CRUD
// operations members use, the month calendar the booking page renders,
// and the status transitions reserved for board admins.
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewBookingHandler(b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// ----- DTOs -----

type bookingReq struct {
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	GuestName  string `json:"guest_name"`
	GuestCount int    `json:"guest_count"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Notes      string `json:"notes"`
}

type statusReq struct {
	Status string `json:"status"` // pending | approved | rejected | cancelled
}

// calendarCell is one rendered cell of the month grid. Empty cells pad
// the first and last week so every row has seven columns, Monday first.
type calendarCell struct {
	Date      string `json:"date,omitempty"`
	Day       int    `json:"day,omitempty"`
	Empty     bool   `json:"empty,omitempty"`
	Booked    bool   `json:"booked"`
	BookingID string `json:"booking_id,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
	Status    string `json:"status,omitempty"`
}

type calendarResp struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Weeks [][]calendarCell `json:"weeks"`
}

// parseBookingReq validates the shared create/update payload and
// returns the dates as midnight UTC.
func parseBookingReq(req bookingReq) (start, end time.Time, errMsg string) {
	var err error
	if start, err = parseDate(req.StartDate); err != nil {
		return start, end, "invalid start_date, want YYYY-MM-DD"
	}
	if end, err = parseDate(req.EndDate); err != nil {
		return start, end, "invalid end_date, want YYYY-MM-DD"
	}
	if end.Before(start) {
		return start, end, "end_date before start_date"
	}
	if strings.TrimSpace(req.GuestName) == "" {
		return start, end, "guest_name required"
	}
	if req.GuestCount < 1 {
		return start, end, "guest_count must be at least 1"
	}
	return start, end, ""
}

// List returns all bookings ordered by start date. Every member sees
// the full list; the booking page shows who holds which dates.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single booking by ID.
func (h *BookingHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Create files a new booking request. New requests always start in the
// pending status and with zeroed payment placeholders, whatever the
// client sends.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, end, msg := parseBookingReq(req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Bookings.Create(ctx, model.Booking{
		UserID:     &uid,
		StartDate:  start,
		EndDate:    end,
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestCount: req.GuestCount,
		Phone:      strings.TrimSpace(req.Phone),
		Email:      strings.TrimSpace(req.Email),
		Notes:      strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Update replaces the editable fields of a booking. Members may edit
// their own requests; admins may edit any. The lifecycle status is not
// touched here, and the payment placeholders are reset.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, end, msg := parseBookingReq(req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Bookings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !canTouchBooking(c, existing, uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}

	existing.StartDate = start
	existing.EndDate = end
	existing.GuestName = strings.TrimSpace(req.GuestName)
	existing.GuestCount = req.GuestCount
	existing.Phone = strings.TrimSpace(req.Phone)
	existing.Email = strings.TrimSpace(req.Email)
	existing.Notes = strings.TrimSpace(req.Notes)

	if err := h.Bookings.Update(ctx, existing); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}
	b, err := h.Bookings.GetByID(ctx, existing.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Delete removes a booking. Members may delete their own requests;
// admins may delete any.
func (h *BookingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Bookings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !canTouchBooking(c, existing, uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}

	if err := h.Bookings.Delete(ctx, existing.ID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Calendar renders the month grid for the booking page: Monday-first
// week rows where a day is booked when an approved booking covers it.
// year/month query parameters default to the current month; any month
// is valid, navigation is unclamped.
func (h *BookingHandler) Calendar(c echo.Context) error {
	now := time.Now().UTC()
	m := calendar.MonthOf(now)
	if y := c.QueryParam("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		m.Year = n
	}
	if mo := c.QueryParam("month"); mo != "" {
		n, err := strconv.Atoi(mo)
		if err != nil || n < 1 || n > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month, want 1-12"})
		}
		m.Month = time.Month(n)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	grid := calendar.BuildMonthGrid(m, bookings)
	weeks := make([][]calendarCell, 0, len(grid))
	for _, week := range grid {
		row := make([]calendarCell, 0, 7)
		for _, day := range week {
			cell := calendarCell{Empty: day.Empty, Booked: day.Booked}
			if !day.Empty {
				cell.Date = day.Date.Format(dateLayout)
				cell.Day = day.Date.Day()
			}
			if day.Booking != nil {
				cell.BookingID = day.Booking.ID
				cell.GuestName = day.Booking.GuestName
				cell.Status = day.Booking.Status
			}
			row = append(row, cell)
		}
		weeks = append(weeks, row)
	}

	return c.JSON(http.StatusOK, calendarResp{
		Year:  m.Year,
		Month: int(m.Month),
		Weeks: weeks,
	})
}

// UpdateStatus moves a booking through its lifecycle (admin only). A
// successful transition publishes a booking.status_changed event; the
// publish is best effort and never fails the request.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case model.BookingPending, model.BookingApproved, model.BookingRejected, model.BookingCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Bookings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Bookings.UpdateStatus(ctx, existing.ID, status); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}

	if existing.Status != status {
		ev := queue.BookingStatusChangedEvent{
			BookingID:  existing.ID,
			GuestName:  existing.GuestName,
			GuestEmail: existing.Email,
			StartDate:  existing.StartDate.UTC().Format(dateLayout),
			EndDate:    existing.EndDate.UTC().Format(dateLayout),
			OldStatus:  existing.Status,
			NewStatus:  status,
			ChangedBy:  uid,
			ChangedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = queue_publisher.PublishBookingStatusChanged(pubCtx, ev)
		}()
	}

	b, err := h.Bookings.GetByID(ctx, existing.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// canTouchBooking reports whether the caller may edit or delete the
// booking: its creator, or any admin. Bookings whose creator account
// was deleted are admin-only.
func canTouchBooking(c echo.Context, b model.Booking, uid uint64) bool {
	if role, _ := c.Get("role").(string); role == model.RoleAdmin {
		return true
	}
	return b.UserID != nil && *b.UserID == uid
}
