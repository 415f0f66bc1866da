package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
)

// bookService is the concrete implementation of BookService.
type bookService struct {
	bookRepository    store.BookRepository
	sectionRepository store.SectionRepository
	attachmentStorage store.AttachmentStorage

	validator   validators.Validator
	idGenerator utils.IDGenerator

	// maxUploadSize is the largest accepted attachment in bytes.
	maxUploadSize int64

	logger *logger.Logger
}

// NewBookService constructs a BookService over storages.
func NewBookService(
	storages *store.Storages,
	validator validators.Validator,
	idGenerator utils.IDGenerator,
	cfg config.Files,
	logger *logger.Logger,
) BookService {
	return &bookService{
		bookRepository:    storages.BookRepository,
		sectionRepository: storages.SectionRepository,
		attachmentStorage: storages.AttachmentStorage,
		validator:         validator,
		idGenerator:       idGenerator,
		maxUploadSize:     cfg.MaxUploadSize,
		logger:            logger,
	}
}

// CreateBook adds a book to an existing section, storing its optional PDF
// attachment first. The stored file is removed again when the row cannot be
// inserted.
func (s *bookService) CreateBook(ctx context.Context, identity *models.Identity, input models.BookInput) (models.Book, error) {
	if err := RequireLibrarian(identity); err != nil {
		return models.Book{}, err
	}

	input = normalizeBookInput(input)
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Book{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if _, err := s.sectionRepository.FindSectionByID(ctx, input.SectionID); err != nil {
		if errors.Is(err, store.ErrSectionNotFound) {
			return models.Book{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return models.Book{}, fmt.Errorf("error finding section: %w", err)
	}

	book := models.Book{
		Name:      input.Name,
		Author:    input.Author,
		Content:   input.Content,
		SectionID: input.SectionID,
	}

	if input.Attachment != nil {
		stored, err := s.saveAttachment(ctx, *input.Attachment)
		if err != nil {
			return models.Book{}, err
		}
		book.AttachmentKey, book.AttachmentName = stored.Key, stored.Name
	}

	created, err := s.bookRepository.CreateBook(ctx, book)
	if err != nil {
		removeAttachment(ctx, s.attachmentStorage, book.AttachmentKey)
		if errors.Is(err, store.ErrSectionNotFound) {
			return models.Book{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return models.Book{}, fmt.Errorf("error creating book: %w", err)
	}

	logger.FromContext(ctx).Info().
		Int64("book_id", created.BookID).
		Bool("attachment", created.HasAttachment()).
		Msg("book created")
	return created, nil
}

func (s *bookService) GetBook(ctx context.Context, identity *models.Identity, bookID int64) (models.Book, error) {
	if err := RequireAuthenticated(identity); err != nil {
		return models.Book{}, err
	}

	book, err := s.bookRepository.FindBookByID(ctx, bookID)
	if err != nil {
		return models.Book{}, notFound(err, store.ErrBookNotFound, "error finding book")
	}

	return book, nil
}

// ListBooks returns the books matching filter together with the values the
// filter controls offer: every distinct author and every section.
func (s *bookService) ListBooks(ctx context.Context, identity *models.Identity, filter models.BookFilter) (models.BookCatalog, error) {
	if err := RequireAuthenticated(identity); err != nil {
		return models.BookCatalog{}, err
	}

	filter.Search = strings.TrimSpace(filter.Search)
	filter.Author = strings.TrimSpace(filter.Author)

	books, err := s.bookRepository.ListBooks(ctx, filter)
	if err != nil {
		return models.BookCatalog{}, fmt.Errorf("error listing books: %w", err)
	}

	authors, err := s.bookRepository.ListAuthors(ctx)
	if err != nil {
		return models.BookCatalog{}, fmt.Errorf("error listing authors: %w", err)
	}

	sections, err := s.sectionRepository.ListSections(ctx, "")
	if err != nil {
		return models.BookCatalog{}, fmt.Errorf("error listing sections: %w", err)
	}

	return models.BookCatalog{Books: books, Authors: authors, Sections: sections}, nil
}

// EditBook overwrites the book in place. An unknown book or section is
// ErrNotFound. A new attachment replaces the previous file, which is removed
// once the row points at the new one.
func (s *bookService) EditBook(ctx context.Context, identity *models.Identity, bookID int64, input models.BookInput) (models.Book, error) {
	if err := RequireLibrarian(identity); err != nil {
		return models.Book{}, err
	}

	current, err := s.bookRepository.FindBookByID(ctx, bookID)
	if err != nil {
		return models.Book{}, notFound(err, store.ErrBookNotFound, "error finding book")
	}

	input = normalizeBookInput(input)
	err = s.validator.Validate(ctx, input, validators.FieldName, validators.FieldAuthor, validators.FieldAttachment)
	if err != nil {
		return models.Book{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if input.SectionID <= 0 {
		return models.Book{}, fmt.Errorf("%w: %w", ErrNotFound, store.ErrSectionNotFound)
	}
	if _, err = s.sectionRepository.FindSectionByID(ctx, input.SectionID); err != nil {
		return models.Book{}, notFound(err, store.ErrSectionNotFound, "error finding section")
	}

	book := current
	book.Name = input.Name
	book.Author = input.Author
	book.Content = input.Content
	book.SectionID = input.SectionID

	if input.Attachment != nil {
		stored, err := s.saveAttachment(ctx, *input.Attachment)
		if err != nil {
			return models.Book{}, err
		}
		book.AttachmentKey, book.AttachmentName = stored.Key, stored.Name
	}

	updated, err := s.bookRepository.UpdateBook(ctx, book)
	if err != nil {
		if book.AttachmentKey != current.AttachmentKey {
			removeAttachment(ctx, s.attachmentStorage, book.AttachmentKey)
		}
		if errors.Is(err, store.ErrBookNotFound) || errors.Is(err, store.ErrSectionNotFound) {
			return models.Book{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return models.Book{}, fmt.Errorf("error updating book: %w", err)
	}

	if current.AttachmentKey != updated.AttachmentKey {
		removeAttachment(ctx, s.attachmentStorage, current.AttachmentKey)
	}

	return updated, nil
}

// DeleteBook deletes the book and then its attachment file.
func (s *bookService) DeleteBook(ctx context.Context, identity *models.Identity, bookID int64) error {
	if err := RequireLibrarian(identity); err != nil {
		return err
	}

	book, err := s.bookRepository.DeleteBook(ctx, bookID)
	if err != nil {
		return notFound(err, store.ErrBookNotFound, "error deleting book")
	}

	removeAttachment(ctx, s.attachmentStorage, book.AttachmentKey)

	logger.FromContext(ctx).Info().Int64("book_id", bookID).Msg("book deleted")
	return nil
}

// FetchAttachment opens the file stored under key. The download name is the
// original file name of the book referencing key, if any.
func (s *bookService) FetchAttachment(ctx context.Context, identity *models.Identity, key string) (models.AttachmentFile, error) {
	if err := RequireAuthenticated(identity); err != nil {
		return models.AttachmentFile{}, err
	}

	file, err := s.attachmentStorage.Open(ctx, key)
	if err != nil {
		return models.AttachmentFile{}, notFound(err, store.ErrAttachmentNotFound, "error opening attachment")
	}

	book, err := s.bookRepository.FindBookByAttachmentKey(ctx, key)
	switch {
	case err == nil && book.AttachmentName != "":
		file.Name = book.AttachmentName
	case err != nil && !errors.Is(err, store.ErrBookNotFound):
		logger.FromContext(ctx).Err(err).Str("key", key).Msg("error finding attachment owner")
	}

	return file, nil
}

func (s *bookService) saveAttachment(ctx context.Context, upload models.AttachmentUpload) (storedAttachment, error) {
	return saveAttachment(ctx, s.attachmentStorage, s.idGenerator.Generate()+".pdf", upload, s.maxUploadSize)
}

func normalizeBookInput(input models.BookInput) models.BookInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Author = strings.TrimSpace(input.Author)
	input.Content = strings.TrimSpace(input.Content)
	return input
}
