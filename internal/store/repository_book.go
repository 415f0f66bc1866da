package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

// bookRepository is the SQL implementation of [BookRepository] over the
// "books" table. Reads join "sections" to fill in the section name.
type bookRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewBookRepository constructs a [BookRepository].
func NewBookRepository(db *DB, logger *logger.Logger) BookRepository {
	logger.Debug().Msg("creating book repository")
	return &bookRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBook inserts a book. A section id without a matching row is
// reported as [ErrSectionNotFound].
func (r *bookRepository) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateBookQuery(r.db.builder, book)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.CreateBook").Msg("error building query")
		return models.Book{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&book.BookID, &book.Available)
	if err != nil {
		if r.db.errorClassificator.IsForeignKeyViolation(err) {
			return models.Book{}, ErrSectionNotFound
		}
		log.Err(err).Str("func", "*bookRepository.CreateBook").Int64("section_id", book.SectionID).Msg("error inserting book")
		return models.Book{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return book, nil
}

func (r *bookRepository) FindBookByID(ctx context.Context, bookID int64) (models.Book, error) {
	return r.findBook(ctx, "*bookRepository.FindBookByID", sq.Eq{"b.book_id": bookID})
}

func (r *bookRepository) FindBookByAttachmentKey(ctx context.Context, key string) (models.Book, error) {
	return r.findBook(ctx, "*bookRepository.FindBookByAttachmentKey", sq.Eq{"b.attachment_key": key})
}

func (r *bookRepository) findBook(ctx context.Context, funcName string, where sq.Eq) (models.Book, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindBookQuery(r.db.builder, where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return models.Book{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	book, err := scanBook(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrBookNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error finding book")
		return models.Book{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListBooksQuery(r.db.builder, r.db.lowerFunc, filter)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.ListBooks").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.ListBooks").Msg("error listing books")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	books := make([]models.Book, 0, 32)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Err(err).Str("func", "*bookRepository.ListBooks").Msg("error scanning book row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*bookRepository.ListBooks").Msg("error iterating book rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return books, nil
}

func (r *bookRepository) ListAuthors(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAuthorsQuery(r.db.builder)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.ListAuthors").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.ListAuthors").Msg("error listing authors")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	authors := make([]string, 0, 32)
	for rows.Next() {
		var author string
		if err := rows.Scan(&author); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return authors, nil
}

// UpdateBook overwrites the book row and reads it back with its section name.
func (r *bookRepository) UpdateBook(ctx context.Context, book models.Book) (models.Book, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateBookQuery(r.db.builder, book)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.UpdateBook").Msg("error building query")
		return models.Book{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if r.db.errorClassificator.IsForeignKeyViolation(err) {
			return models.Book{}, ErrSectionNotFound
		}
		log.Err(err).Str("func", "*bookRepository.UpdateBook").Int64("book_id", book.BookID).Msg("error updating book")
		return models.Book{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return models.Book{}, ErrBookNotFound
	}

	return r.FindBookByID(ctx, book.BookID)
}

// DeleteBook removes the book and returns the row as it was before deletion,
// so the caller can clean up its attachment.
func (r *bookRepository) DeleteBook(ctx context.Context, bookID int64) (models.Book, error) {
	log := logger.FromContext(ctx)

	book, err := r.FindBookByID(ctx, bookID)
	if err != nil {
		return models.Book{}, err
	}

	query, args, err := buildDeleteBookQuery(r.db.builder, bookID)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.DeleteBook").Msg("error building query")
		return models.Book{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*bookRepository.DeleteBook").Int64("book_id", bookID).Msg("error deleting book")
		return models.Book{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.Book{}, ErrBookNotFound
	}

	return book, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var book models.Book
	err := row.Scan(
		&book.BookID,
		&book.Name,
		&book.Author,
		&book.Content,
		&book.Available,
		&book.SectionID,
		&book.SectionName,
		&book.AttachmentKey,
		&book.AttachmentName,
	)
	return book, err
}
