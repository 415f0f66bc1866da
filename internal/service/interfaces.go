package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-library-keeper/models"
)

// AuthService manages accounts and login sessions.
type AuthService interface {
	// RegisterUser creates a member account.
	RegisterUser(ctx context.Context, registration models.Registration) (models.User, error)
	// Authenticate checks an email/password pair.
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	// CreateSession opens a session for user and returns its signed token.
	CreateSession(ctx context.Context, user models.User) (models.SessionToken, error)
	// ResolveIdentity turns a session token back into the signed-in identity.
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, error)
	// Logout revokes the session of identity. A nil identity is a no-op.
	Logout(ctx context.Context, identity *models.Identity) error
	// EnsureLibrarian creates the bootstrap librarian when none exists.
	EnsureLibrarian(ctx context.Context) (bool, error)
	// ChangePassword replaces the password of the account with email.
	ChangePassword(ctx context.Context, email, newPassword string) error
	// PurgeStaleSessions deletes expired and revoked sessions.
	PurgeStaleSessions(ctx context.Context) (int64, error)
}

// SectionService manages catalog sections. Mutations require a librarian.
type SectionService interface {
	CreateSection(ctx context.Context, identity *models.Identity, input models.SectionInput) (models.Section, error)
	GetSection(ctx context.Context, identity *models.Identity, sectionID int64) (models.Section, error)
	ListSections(ctx context.Context, identity *models.Identity, search string) ([]models.Section, error)
	EditSection(ctx context.Context, identity *models.Identity, sectionID int64, input models.SectionInput) (models.Section, error)
	DeleteSection(ctx context.Context, identity *models.Identity, sectionID int64) error
}

// BookService manages catalog books and their attachments. Mutations
// require a librarian.
type BookService interface {
	CreateBook(ctx context.Context, identity *models.Identity, input models.BookInput) (models.Book, error)
	GetBook(ctx context.Context, identity *models.Identity, bookID int64) (models.Book, error)
	ListBooks(ctx context.Context, identity *models.Identity, filter models.BookFilter) (models.BookCatalog, error)
	EditBook(ctx context.Context, identity *models.Identity, bookID int64, input models.BookInput) (models.Book, error)
	DeleteBook(ctx context.Context, identity *models.Identity, bookID int64) error
	// FetchAttachment opens a stored attachment for download. The caller
	// must close the returned content.
	FetchAttachment(ctx context.Context, identity *models.Identity, key string) (models.AttachmentFile, error)
}
