package model

import "time"

// BoardMeeting is a row in the `board_meetings` table. Documents from
// the meeting (minutes, appendices) are stored separately and attached
// by meeting ID.
//
// Fields:
//  ID        – CHAR(36) UUID primary key.
//  Date      – day the meeting takes place (DATE column).
//  Title     – meeting title.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type BoardMeeting struct {
	ID        string    // board_meetings.id
	Date      time.Time // board_meetings.date
	Title     string    // board_meetings.title
	CreatedAt time.Time // board_meetings.created_at
	UpdatedAt time.Time // board_meetings.updated_at
}

// BoardMeetingDocument is a row in the `board_meeting_documents` table.
// FilePath is the object-store key under which the file body lives; the
// original filename is kept in Name for download headers.
//
// Fields:
//  ID         – CHAR(36) UUID primary key.
//  MeetingID  – meeting the document belongs to.
//  Name       – original filename as uploaded.
//  FilePath   – object-store key (meeting_id/timestamp_safename).
//  UploadedBy – account that uploaded the file (nullable).
//  CreatedAt  – timestamp of creation.
type BoardMeetingDocument struct {
	ID         string    // board_meeting_documents.id
	MeetingID  string    // board_meeting_documents.meeting_id
	Name       string    // board_meeting_documents.name
	FilePath   string    // board_meeting_documents.file_path
	UploadedBy *uint64   // board_meeting_documents.uploaded_by (nullable)
	CreatedAt  time.Time // board_meeting_documents.created_at
}
