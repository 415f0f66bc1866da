package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorClassificator tells repository code which constraint a failed
// statement violated, hiding the driver-specific error types.
type ErrorClassificator interface {
	// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
	IsUniqueViolation(err error) bool
	// IsForeignKeyViolation reports whether err is a FOREIGN KEY failure.
	IsForeignKeyViolation(err error) bool
}

// PostgresErrorClassifier inspects *pgconn.PgError codes.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) IsUniqueViolation(err error) bool {
	return postgresError(err) == pgerrcode.UniqueViolation
}

func (c *PostgresErrorClassifier) IsForeignKeyViolation(err error) bool {
	return postgresError(err) == pgerrcode.ForeignKeyViolation
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// SQLiteErrorClassifier inspects sqlite3.Error extended result codes.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier].
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

func (c *SQLiteErrorClassifier) IsUniqueViolation(err error) bool {
	code, ok := sqliteExtendedCode(err)
	return ok && (code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey)
}

func (c *SQLiteErrorClassifier) IsForeignKeyViolation(err error) bool {
	code, ok := sqliteExtendedCode(err)
	return ok && code == sqlite3.ErrConstraintForeignKey
}

func sqliteExtendedCode(err error) (sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode, true
	}

	return 0, false
}
