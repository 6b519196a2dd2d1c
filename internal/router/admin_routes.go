package router

import (
	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/handler"
	"github.com/brfkastanjen/member-portal/internal/middleware"
)

// RegisterAdmin registers board-only endpoints under /v1/admin. All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(
	e *echo.Echo,
	u *handler.AdminUserHandler,
	s *handler.SectionHandler,
	b *handler.BookingHandler,
	m *handler.MeetingHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Users ----
	g.GET("/users", u.List)
	g.POST("/users", u.Create)
	g.PATCH("/users/:id/role", u.ToggleRole)
	g.DELETE("/users/:id", u.Delete)

	// ---- Sections ----
	g.POST("/sections", s.Create)
	g.PUT("/sections/:id", s.Update)
	g.DELETE("/sections/:id", s.Delete)

	// ---- Bookings ----
	g.PATCH("/bookings/:id/status", b.UpdateStatus)

	// ---- Meetings & documents ----
	g.POST("/meetings", m.Create)
	g.DELETE("/meetings/:id", m.Delete)
	g.POST("/meetings/:id/documents", m.UploadDocument)
	g.POST("/meetings/:id/documents/import", m.ImportDocument)
	g.DELETE("/documents/:id", m.DeleteDocument)
}
