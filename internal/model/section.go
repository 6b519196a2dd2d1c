package model

import "time"

// Section is an informational page of the portal as stored in the
// `sections` table. Content is the rich-text body produced by the
// editor and is treated as opaque HTML by the server.
//
// Fields:
//  ID        – CHAR(36) UUID primary key.
//  Title     – page title shown in navigation.
//  Content   – rich-text body.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Section struct {
	ID        string    // sections.id
	Title     string    // sections.title
	Content   string    // sections.content
	CreatedAt time.Time // sections.created_at
	UpdatedAt time.Time // sections.updated_at
}
