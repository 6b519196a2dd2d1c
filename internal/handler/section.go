package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brfkastanjen/member-portal/internal/model"
	"github.com/brfkastanjen/member-portal/internal/repository"
)

// SectionHandler serves the portal's informational pages. Members read
// them; creating, editing and deleting is admin only.
type SectionHandler struct {
	Sections *repository.SectionRepo
}

func NewSectionHandler(s *repository.SectionRepo) *SectionHandler {
	return &SectionHandler{Sections: s}
}

type sectionReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type sectionResp struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toSectionResp(s model.Section) sectionResp {
	return sectionResp{
		ID:        s.ID,
		Title:     s.Title,
		Content:   s.Content,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns every section in the order the board created them.
func (h *SectionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sections, err := h.Sections.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sectionResp, 0, len(sections))
	for _, s := range sections {
		out = append(out, toSectionResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single section by ID.
func (h *SectionHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sections.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSectionResp(s))
}

// Create adds a new informational page (admin only).
func (h *SectionHandler) Create(c echo.Context) error {
	var req sectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Sections.Create(ctx, req.Title, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create section failed"})
	}
	s, err := h.Sections.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load section failed"})
	}
	return c.JSON(http.StatusCreated, toSectionResp(s))
}

// Update replaces a section's title and content (admin only).
func (h *SectionHandler) Update(c echo.Context) error {
	var req sectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	if err := h.Sections.Update(ctx, id, req.Title, req.Content); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update section failed"})
	}
	s, err := h.Sections.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load section failed"})
	}
	return c.JSON(http.StatusOK, toSectionResp(s))
}

// Delete removes a section (admin only).
func (h *SectionHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sections.Delete(ctx, c.Param("id")); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete section failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
