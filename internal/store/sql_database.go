package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/migrations"
	sq "github.com/Masterminds/squirrel"
)

// DB is an open connection pool together with the SQL dialect it speaks.
//
// Repositories build queries through builder so placeholders match the
// dialect ($1 for PostgreSQL, ? for SQLite) and classify driver errors
// through errorClassificator. lowerFunc names the SQL function that
// case-insensitive search lower-cases columns with.
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	builder            sq.StatementBuilderType
	lowerFunc          string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens the database named by cfg.DSN. A "postgres://" or
// "postgresql://" URL selects PostgreSQL; anything else is a SQLite file.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch {
	case cfg.DSN == "":
		return nil, ErrUnsupportedDSN
	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return NewConnectSQLite(ctx, cfg, log)
	}
}

func newDB(conn *sql.DB, dialect migrations.Dialect, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		logger:  log,
	}

	switch dialect {
	case migrations.Postgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.lowerFunc = "LOWER"
		db.errorClassificator = NewPostgresErrorClassifier()
	default:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.lowerFunc = sqliteLowerFunc
		db.errorClassificator = NewSQLiteErrorClassifier()
	}

	return db
}

// Dialect returns the SQL dialect of the connection.
func (db *DB) Dialect() migrations.Dialect {
	return db.dialect
}

// Migrate applies pending schema migrations for the connection's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB, db.dialect)
	if err != nil {
		db.logger.Err(err).Str("func", "*DB.Migrate").Msg("error applying migrations")
		return err
	}

	db.logger.Info().Str("func", "*DB.Migrate").
		Str("dialect", string(db.dialect)).
		Int("applied", applied).
		Msg("database schema is up to date")
	return nil
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
