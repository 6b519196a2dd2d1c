package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/brfkastanjen/member-portal/internal/model"
)

// MeetingRepo provides CRUD operations for board meetings and their
// uploaded documents. Meetings are listed newest first; documents are
// attached to a meeting by ID and point at object-store keys.
type MeetingRepo struct{ DB *sql.DB }

// NewMeetingRepo returns a MeetingRepo bound to the given database.
func NewMeetingRepo(db *sql.DB) *MeetingRepo { return &MeetingRepo{DB: db} }

// List returns all meetings ordered by meeting date descending.
func (r *MeetingRepo) List(ctx context.Context) ([]model.BoardMeeting, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,date,title,created_at,updated_at FROM board_meetings ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meetings := make([]model.BoardMeeting, 0)
	for rows.Next() {
		var m model.BoardMeeting
		if err := rows.Scan(&m.ID, &m.Date, &m.Title, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Create inserts a new meeting and returns its generated UUID.
func (r *MeetingRepo) Create(ctx context.Context, date time.Time, title string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO board_meetings (id,date,title) VALUES (?,?,?)",
		id, date.UTC().Format("2006-01-02"), title)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a meeting row. Document rows cascade via the foreign
// key; the caller is responsible for removing the stored files first.
func (r *MeetingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM board_meetings WHERE id=?", id)
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

// Exists reports whether a meeting row is present.
func (r *MeetingRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM board_meetings WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListDocuments returns every document row, used to attach documents to
// their meetings in a single pass.
func (r *MeetingRepo) ListDocuments(ctx context.Context) ([]model.BoardMeetingDocument, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,meeting_id,name,file_path,uploaded_by,created_at FROM board_meeting_documents ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.BoardMeetingDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListDocumentsByMeeting returns the documents attached to one meeting.
func (r *MeetingRepo) ListDocumentsByMeeting(ctx context.Context, meetingID string) ([]model.BoardMeetingDocument, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,meeting_id,name,file_path,uploaded_by,created_at FROM board_meeting_documents WHERE meeting_id=? ORDER BY created_at",
		meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.BoardMeetingDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetDocument returns a single document row or ErrNotFound.
func (r *MeetingRepo) GetDocument(ctx context.Context, id string) (model.BoardMeetingDocument, error) {
	d, err := scanDocument(r.DB.QueryRowContext(ctx,
		"SELECT id,meeting_id,name,file_path,uploaded_by,created_at FROM board_meeting_documents WHERE id=?",
		id).Scan)
	if err == sql.ErrNoRows {
		return model.BoardMeetingDocument{}, ErrNotFound
	}
	return d, err
}

// CreateDocument inserts a document row pointing at an already-stored
// object and returns its generated UUID.
func (r *MeetingRepo) CreateDocument(ctx context.Context, meetingID, name, filePath string, uploadedBy *uint64) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO board_meeting_documents (id,meeting_id,name,file_path,uploaded_by) VALUES (?,?,?,?,?)",
		id, meetingID, name, filePath, nullableUserID(uploadedBy))
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteDocument removes a document row.
func (r *MeetingRepo) DeleteDocument(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM board_meeting_documents WHERE id=?", id)
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

func scanDocument(scan func(dest ...any) error) (model.BoardMeetingDocument, error) {
	var (
		d          model.BoardMeetingDocument
		uploadedBy sql.NullInt64
	)
	err := scan(&d.ID, &d.MeetingID, &d.Name, &d.FilePath, &uploadedBy, &d.CreatedAt)
	if err != nil {
		return model.BoardMeetingDocument{}, err
	}
	if uploadedBy.Valid {
		uid := uint64(uploadedBy.Int64)
		d.UploadedBy = &uid
	}
	return d, nil
}
