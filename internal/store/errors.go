package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a user cannot be created because
	// another account already uses the same email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user was not found")

	// ErrSessionNotFound is returned when no session row matches the id.
	ErrSessionNotFound = errors.New("session was not found")

	// ErrSectionNotFound is returned when a query or update targets a
	// section that does not exist.
	ErrSectionNotFound = errors.New("section was not found")

	// ErrBookNotFound is returned when a query or update targets a book that
	// does not exist.
	ErrBookNotFound = errors.New("book was not found")

	// ErrAttachmentNotFound is returned when an attachment key does not name
	// a regular file inside the upload directory.
	ErrAttachmentNotFound = errors.New("attachment was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrUnsupportedDSN is returned when a DSN names no supported backend.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)
