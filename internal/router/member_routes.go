package router

import (
	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/handler"
	"github.com/brfkastanjen/member-portal/internal/middleware"
)

// RegisterMember registers the endpoints every authenticated resident
// can use: reading sections, working with guest-apartment bookings and
// the month calendar, and browsing board meetings with their documents.
// The cache middleware (pass-through when caching is disabled) is
// applied to the read-mostly section and meeting endpoints.
func RegisterMember(
	e *echo.Echo,
	s *handler.SectionHandler,
	b *handler.BookingHandler,
	m *handler.MeetingHandler,
	jwtSecret string,
	cache echo.MiddlewareFunc,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MEMBER", "ADMIN"),
	)

	// ---- Sections ----
	g.GET("/sections", s.List, cache)
	g.GET("/sections/:id", s.Get, cache)

	// ---- Bookings ----
	g.GET("/bookings", b.List)
	g.GET("/bookings/calendar", b.Calendar)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings", b.Create)
	g.PUT("/bookings/:id", b.Update)
	g.DELETE("/bookings/:id", b.Delete)

	// ---- Meetings & documents ----
	g.GET("/meetings", m.List, cache)
	g.GET("/documents/:id/url", m.DocumentURL)

	// The download route carries its own HMAC capability in the query
	// string, so it is registered without JWT middleware: the signed
	// link must work in a plain browser tab.
	e.GET("/v1/documents/download", m.Download)
}
