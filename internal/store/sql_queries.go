package store

import (
	"database/sql"
	"strings"

	"github.com/MKhiriev/go-library-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

// Table names come from the models.
var (
	usersTable    = models.User{}.TableName()
	sessionsTable = models.Session{}.TableName()
	sectionsTable = models.Section{}.TableName()
	booksTable    = models.Book{}.TableName()
)

// Column lists shared by the SELECT and RETURNING clauses, in scan order.
var (
	userColumns    = []string{"user_id", "name", "email", "password_hash", "librarian", "created_at"}
	sessionColumns = []string{"session_id", "user_id", "created_at", "expires_at", "revoked_at"}
	sectionColumns = []string{"section_id", "name", "description"}
	bookColumns    = []string{
		"b.book_id", "b.name", "b.author", "b.content", "b.available", "b.section_id", "s.name",
		"COALESCE(b.attachment_key, '')", "COALESCE(b.attachment_name, '')",
	}
)

// likeEscaper escapes the LIKE wildcards of a user-supplied search term.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a lower-cased, escaped LIKE pattern matching term
// anywhere in a value.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// containsIgnoreCase builds a case-insensitive substring predicate on column.
// lower names the SQL function that folds column the way strings.ToLower
// folds term.
func containsIgnoreCase(lower, column, term string) sq.Sqlizer {
	return sq.Expr(lower+"("+column+`) LIKE ? ESCAPE '\'`, containsPattern(term))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ── users ─────────────────────────────────────────────────────────────────────

func buildCreateUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable).
		Columns("name", "email", "password_hash", "librarian").
		Values(user.Name, user.Email, user.PasswordHash, user.Librarian).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
}

func buildFindUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

func buildHasLibrarianQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("user_id").
		From(usersTable).
		Where(sq.Eq{"librarian": true}).
		Limit(1).
		ToSql()
}

func buildUpdatePasswordHashQuery(b sq.StatementBuilderType, userID int64, hash string) (string, []any, error) {
	return b.Update(usersTable).
		Set("password_hash", hash).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// ── sessions ──────────────────────────────────────────────────────────────────

func buildCreateSessionQuery(b sq.StatementBuilderType, session models.Session) (string, []any, error) {
	return b.Insert(sessionsTable).
		Columns("session_id", "user_id", "created_at", "expires_at").
		Values(session.SessionID, session.UserID, session.CreatedAt.UTC(), session.ExpiresAt.UTC()).
		ToSql()
}

func buildFindSessionQuery(b sq.StatementBuilderType, sessionID string) (string, []any, error) {
	return b.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
}

func buildRevokeSessionQuery(b sq.StatementBuilderType, sessionID string, revokedAt any) (string, []any, error) {
	return b.Update(sessionsTable).
		Set("revoked_at", revokedAt).
		Where(sq.Eq{"session_id": sessionID, "revoked_at": nil}).
		ToSql()
}

func buildDeleteStaleSessionsQuery(b sq.StatementBuilderType, now any) (string, []any, error) {
	return b.Delete(sessionsTable).
		Where(sq.Or{
			sq.LtOrEq{"expires_at": now},
			sq.NotEq{"revoked_at": nil},
		}).
		ToSql()
}

// ── sections ──────────────────────────────────────────────────────────────────

func buildCreateSectionQuery(b sq.StatementBuilderType, section models.Section) (string, []any, error) {
	return b.Insert(sectionsTable).
		Columns("name", "description").
		Values(section.Name, section.Description).
		Suffix("RETURNING " + strings.Join(sectionColumns, ", ")).
		ToSql()
}

func buildFindSectionQuery(b sq.StatementBuilderType, sectionID int64) (string, []any, error) {
	return b.Select(sectionColumns...).
		From(sectionsTable).
		Where(sq.Eq{"section_id": sectionID}).
		ToSql()
}

// buildListSectionsQuery lists sections ordered by id, narrowed to names
// containing search (case-insensitive) when search is not empty.
func buildListSectionsQuery(b sq.StatementBuilderType, lower, search string) (string, []any, error) {
	query := b.Select(sectionColumns...).
		From(sectionsTable).
		OrderBy("section_id")

	if search != "" {
		query = query.Where(containsIgnoreCase(lower, "name", search))
	}

	return query.ToSql()
}

func buildUpdateSectionQuery(b sq.StatementBuilderType, section models.Section) (string, []any, error) {
	return b.Update(sectionsTable).
		Set("name", section.Name).
		Set("description", section.Description).
		Where(sq.Eq{"section_id": section.SectionID}).
		Suffix("RETURNING " + strings.Join(sectionColumns, ", ")).
		ToSql()
}

func buildSectionAttachmentKeysQuery(b sq.StatementBuilderType, sectionID int64) (string, []any, error) {
	return b.Select("attachment_key").
		From(booksTable).
		Where(sq.And{
			sq.Eq{"section_id": sectionID},
			sq.NotEq{"attachment_key": nil},
		}).
		ToSql()
}

func buildDeleteSectionBooksQuery(b sq.StatementBuilderType, sectionID int64) (string, []any, error) {
	return b.Delete(booksTable).
		Where(sq.Eq{"section_id": sectionID}).
		ToSql()
}

func buildDeleteSectionQuery(b sq.StatementBuilderType, sectionID int64) (string, []any, error) {
	return b.Delete(sectionsTable).
		Where(sq.Eq{"section_id": sectionID}).
		ToSql()
}

// ── books ─────────────────────────────────────────────────────────────────────

func selectBooks(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select(bookColumns...).
		From(booksTable + " b").
		Join(sectionsTable + " s ON s.section_id = b.section_id")
}

func buildCreateBookQuery(b sq.StatementBuilderType, book models.Book) (string, []any, error) {
	return b.Insert(booksTable).
		Columns("name", "author", "content", "section_id", "attachment_key", "attachment_name").
		Values(book.Name, book.Author, book.Content, book.SectionID,
			nullString(book.AttachmentKey), nullString(book.AttachmentName)).
		Suffix("RETURNING book_id, available").
		ToSql()
}

func buildFindBookQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return selectBooks(b).
		Where(where).
		ToSql()
}

// buildListBooksQuery lists books ordered by id. Every non-zero field of
// filter adds one AND-ed predicate.
func buildListBooksQuery(b sq.StatementBuilderType, lower string, filter models.BookFilter) (string, []any, error) {
	query := selectBooks(b).OrderBy("b.book_id")
	if filter.IsZero() {
		return query.ToSql()
	}

	if filter.Search != "" {
		query = query.Where(containsIgnoreCase(lower, "b.name", filter.Search))
	}
	if filter.Author != "" {
		query = query.Where(containsIgnoreCase(lower, "b.author", filter.Author))
	}
	if filter.SectionID > 0 {
		query = query.Where(sq.Eq{"b.section_id": filter.SectionID})
	}

	return query.ToSql()
}

func buildListAuthorsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("author").
		Distinct().
		From(booksTable).
		OrderBy("author").
		ToSql()
}

func buildUpdateBookQuery(b sq.StatementBuilderType, book models.Book) (string, []any, error) {
	return b.Update(booksTable).
		Set("name", book.Name).
		Set("author", book.Author).
		Set("content", book.Content).
		Set("section_id", book.SectionID).
		Set("attachment_key", nullString(book.AttachmentKey)).
		Set("attachment_name", nullString(book.AttachmentName)).
		Where(sq.Eq{"book_id": book.BookID}).
		ToSql()
}

func buildDeleteBookQuery(b sq.StatementBuilderType, bookID int64) (string, []any, error) {
	return b.Delete(booksTable).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
}
