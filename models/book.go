package models

import (
	"io"
	"time"
)

// Book is a catalog entry owned by exactly one [Section].
type Book struct {
	BookID    int64  `json:"book_id"`
	Name      string `json:"name"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Available bool   `json:"available"`

	// SectionID references the owning section.
	SectionID int64 `json:"section_id"`

	// SectionName is filled by list queries that join sections; it is not
	// persisted on the book row.
	SectionName string `json:"section_name,omitempty"`

	// AttachmentKey is the storage key of the PDF attachment inside the upload
	// directory. Empty when the book has no attachment.
	AttachmentKey string `json:"attachment_key,omitempty"`

	// AttachmentName is the sanitized original filename of the attachment,
	// used for display and as the download name.
	AttachmentName string `json:"attachment_name,omitempty"`
}

// TableName returns the name of the database table
// associated with the Book model.
func (b Book) TableName() string {
	return "books"
}

// HasAttachment reports whether the book references a stored file.
func (b Book) HasAttachment() bool {
	return b.AttachmentKey != ""
}

// BookInput holds the editable fields of a book as submitted by a form.
// Attachment is nil when no file was uploaded.
type BookInput struct {
	Name       string
	Author     string
	Content    string
	SectionID  int64
	Attachment *AttachmentUpload
}

// AttachmentUpload is an uploaded file waiting to be validated and stored.
type AttachmentUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// BookFilter narrows a book listing. Zero-valued fields are ignored; the
// remaining ones are combined with AND.
type BookFilter struct {
	// Search is a case-insensitive substring of the book name.
	Search string
	// Author is a case-insensitive substring of the author name.
	Author string
	// SectionID restricts the listing to one section when positive.
	SectionID int64
}

// IsZero reports whether no filter is applied.
func (f BookFilter) IsZero() bool {
	return f.Search == "" && f.Author == "" && f.SectionID == 0
}

// BookCatalog is the data behind the books page: the filtered books plus the
// values offered by the filter controls.
type BookCatalog struct {
	Books    []Book
	Authors  []string
	Sections []Section
}

// AttachmentFile is an open stored attachment ready to be served.
// The caller must close Content.
type AttachmentFile struct {
	Key     string
	Name    string
	Size    int64
	ModTime time.Time
	Content io.ReadSeekCloser
}
