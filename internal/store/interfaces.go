package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-library-keeper/models"
)

// UserRepository persists library accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with UserID and CreatedAt set.
	// A duplicate email yields [ErrEmailAlreadyExists].
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByEmail yields [ErrUserNotFound] when no account uses email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByID yields [ErrUserNotFound] when the id is unknown.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// HasLibrarian reports whether at least one librarian account exists.
	HasLibrarian(ctx context.Context) (bool, error)
	// UpdatePasswordHash replaces the stored bcrypt hash of a user.
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	// FindSession yields [ErrSessionNotFound] for unknown ids.
	FindSession(ctx context.Context, sessionID string) (models.Session, error)
	// RevokeSession marks the session revoked. Revoking an unknown or already
	// revoked session is not an error.
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error
	// DeleteStaleSessions removes sessions expired at now or revoked and
	// returns how many were removed.
	DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error)
}

// SectionRepository persists catalog sections.
type SectionRepository interface {
	CreateSection(ctx context.Context, section models.Section) (models.Section, error)
	// FindSectionByID yields [ErrSectionNotFound] for unknown ids.
	FindSectionByID(ctx context.Context, sectionID int64) (models.Section, error)
	// ListSections returns sections ordered by id whose name contains search,
	// ignoring case. An empty search returns every section.
	ListSections(ctx context.Context, search string) ([]models.Section, error)
	// UpdateSection overwrites name and description in place.
	UpdateSection(ctx context.Context, section models.Section) (models.Section, error)
	// DeleteSection removes the section and all of its books in one
	// transaction and returns the attachment keys the removed books held.
	DeleteSection(ctx context.Context, sectionID int64) ([]string, error)
}

// BookRepository persists catalog books.
type BookRepository interface {
	// CreateBook inserts book and returns it with BookID and Available set.
	// An unknown section yields [ErrSectionNotFound].
	CreateBook(ctx context.Context, book models.Book) (models.Book, error)
	// FindBookByID yields [ErrBookNotFound] for unknown ids.
	FindBookByID(ctx context.Context, bookID int64) (models.Book, error)
	// FindBookByAttachmentKey yields [ErrBookNotFound] when no book
	// references key.
	FindBookByAttachmentKey(ctx context.Context, key string) (models.Book, error)
	// ListBooks returns the books matching every non-zero filter field,
	// ordered by id, each with its section name.
	ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	// ListAuthors returns the distinct author names in ascending order.
	ListAuthors(ctx context.Context) ([]string, error)
	// UpdateBook overwrites the editable fields of the book in place.
	UpdateBook(ctx context.Context, book models.Book) (models.Book, error)
	// DeleteBook removes the book and returns the removed row.
	DeleteBook(ctx context.Context, bookID int64) (models.Book, error)
}

// AttachmentStorage keeps attachment files in the upload directory.
type AttachmentStorage interface {
	// Save writes content under key. Writing more than maxSize bytes fails
	// and leaves no file behind. Returns the number of bytes written.
	Save(ctx context.Context, key string, content io.Reader, maxSize int64) (int64, error)
	// Open opens the file stored under key. Keys that do not name a regular
	// file directly inside the upload directory yield [ErrAttachmentNotFound].
	Open(ctx context.Context, key string) (models.AttachmentFile, error)
	// Remove deletes the file stored under key. A missing file yields
	// [ErrAttachmentNotFound].
	Remove(ctx context.Context, key string) error
}
