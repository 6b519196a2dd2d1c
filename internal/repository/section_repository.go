package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// SectionRepo provides CRUD operations for the portal's informational
// pages. Rows are keyed by UUID and ordered by creation time so the
// navigation renders pages in the order the board added them.
type SectionRepo struct{ DB *sql.DB }

// NewSectionRepo returns a SectionRepo bound to the given database.
func NewSectionRepo(db *sql.DB) *SectionRepo { return &SectionRepo{DB: db} }

// List returns all sections ordered by creation time ascending.
func (r *SectionRepo) List(ctx context.Context) ([]model.Section, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,content,created_at,updated_at FROM sections ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sections := make([]model.Section, 0)
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// GetByID returns a single section or ErrNotFound.
func (r *SectionRepo) GetByID(ctx context.Context, id string) (model.Section, error) {
	var s model.Section
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,content,created_at,updated_at FROM sections WHERE id=?",
		id).Scan(&s.ID, &s.Title, &s.Content, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Section{}, ErrNotFound
	}
	return s, err
}

// Create inserts a new section and returns its generated UUID.
func (r *SectionRepo) Create(ctx context.Context, title, content string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sections (id,title,content) VALUES (?,?,?)",
		id, title, content)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces a section's title and content. Returns ErrNotFound
// when the row is absent.
func (r *SectionRepo) Update(ctx context.Context, id, title, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sections SET title=?, content=?, updated_at=NOW() WHERE id=?",
		title, content, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM sections WHERE id=? LIMIT 1", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a section.
func (r *SectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sections WHERE id=?", id)
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
