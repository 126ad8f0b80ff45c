package model

import "time"

// File represents a stored markdown document in the `files` table.
// Name may encode a folder path using the "folder/filename" convention;
// the server treats it as an opaque non-empty string.
//
// Fields:
//  ID        – primary key identifier (uuid).
//  Name      – file name, non-empty after trimming.
//  Content   – raw markdown text (empty string allowed).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type File struct {
	ID        string    // files.id
	Name      string    // files.name
	Content   string    // files.content
	CreatedAt time.Time // files.created_at
	UpdatedAt time.Time // files.updated_at
}
