// Package migrations embeds the SQL schema of the library and applies it with
// goose. Each supported SQL dialect keeps its own migration directory.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite3/*.sql
var embedMigrations embed.FS

// Dialect names a supported SQL dialect. The value doubles as the name of
// the migration directory.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// ErrUnsupportedDialect is returned for dialects without a migration set.
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

func (d Dialect) gooseDialect() (goose.Dialect, error) {
	switch d {
	case Postgres:
		return goose.DialectPostgres, nil
	case SQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, string(d))
	}
}

// Migrate applies every pending migration of the given dialect to db and
// returns the number of migrations applied.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) (int, error) {
	if db == nil {
		return 0, errors.New("migration error: db is nil")
	}

	gooseDialect, err := dialect.gooseDialect()
	if err != nil {
		return 0, fmt.Errorf("migration error: %w", err)
	}

	fsys, err := fs.Sub(embedMigrations, string(dialect))
	if err != nil {
		return 0, fmt.Errorf("migration error opening %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migration error creating provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration error: %w", err)
	}

	return len(results), nil
}
