package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/mock"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testMaxUploadSize = 1 << 10

type bookSvcMocks struct {
	books       *mock.MockBookRepository
	sections    *mock.MockSectionRepository
	attachments *mock.MockAttachmentStorage
}

func newTestBookSvc(t *testing.T) (BookService, bookSvcMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := bookSvcMocks{
		books:       mock.NewMockBookRepository(ctrl),
		sections:    mock.NewMockSectionRepository(ctrl),
		attachments: mock.NewMockAttachmentStorage(ctrl),
	}

	storages := &store.Storages{
		BookRepository:    m.books,
		SectionRepository: m.sections,
		AttachmentStorage: m.attachments,
	}
	svc := NewBookService(storages, validators.NewCatalogValidator(), staticIDGenerator("0198-key"),
		config.Files{MaxUploadSize: testMaxUploadSize}, logger.Nop())
	return svc, m
}

func pdf(name, content string) *models.AttachmentUpload {
	return &models.AttachmentUpload{Filename: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

// ── policy ───────────────────────────────────────────────────────────────────

func TestBookService_PolicyRejectsBeforeStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBookSvc(t)

	input := models.BookInput{Name: "1984", Author: "Orwell", SectionID: 1}

	_, err := svc.CreateBook(ctx, member, input)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.EditBook(ctx, member, 1, input)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteBook(ctx, member, 1), ErrForbidden)

	_, err = svc.ListBooks(ctx, nil, models.BookFilter{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.GetBook(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.FetchAttachment(ctx, nil, "k.pdf")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// ── CreateBook ───────────────────────────────────────────────────────────────

func TestBookService_CreateBook_WithoutAttachment(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)
	m.books.EXPECT().CreateBook(ctx, models.Book{Name: "1984", Author: "Orwell", SectionID: 1}).
		Return(models.Book{BookID: 5, Name: "1984", Author: "Orwell", SectionID: 1, Available: true}, nil)

	book, err := svc.CreateBook(ctx, librarian, models.BookInput{Name: " 1984 ", Author: "Orwell", SectionID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), book.BookID)
	assert.True(t, book.Available)
}

func TestBookService_CreateBook_WithAttachment(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	const content = "%PDF-1.7 body"
	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)
	m.attachments.EXPECT().Save(ctx, "0198-key.pdf", gomock.Any(), int64(testMaxUploadSize)).DoAndReturn(
		func(_ context.Context, _ string, r io.Reader, _ int64) (int64, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, content, string(data), "signature bytes must be written too")
			return int64(len(data)), nil
		},
	)
	m.books.EXPECT().CreateBook(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, b models.Book) (models.Book, error) {
			assert.Equal(t, "0198-key.pdf", b.AttachmentKey)
			assert.Equal(t, "animal farm.pdf", b.AttachmentName)
			b.BookID = 6
			return b, nil
		},
	)

	input := models.BookInput{Name: "Animal Farm", Author: "Orwell", SectionID: 1, Attachment: pdf(`C:\books\animal farm.pdf`, content)}
	book, err := svc.CreateBook(ctx, librarian, input)
	require.NoError(t, err)
	assert.True(t, book.HasAttachment())
}

func TestBookService_CreateBook_RejectsNonPDFContent(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)

	input := models.BookInput{Name: "Fake", Author: "A", SectionID: 1, Attachment: pdf("fake.pdf", "MZ\x90\x00binary")}
	_, err := svc.CreateBook(ctx, librarian, input)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrAttachmentNotPDF)
}

func TestBookService_CreateBook_TooLarge(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)
	m.attachments.EXPECT().Save(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), store.ErrAttachmentTooLarge)

	_, err := svc.CreateBook(ctx, librarian, models.BookInput{Name: "Big", Author: "A", SectionID: 1, Attachment: pdf("big.pdf", "%PDF big")})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, store.ErrAttachmentTooLarge)
}

func TestBookService_CreateBook_UnknownSection(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.sections.EXPECT().FindSectionByID(ctx, int64(42)).Return(models.Section{}, store.ErrSectionNotFound)

	_, err := svc.CreateBook(ctx, librarian, models.BookInput{Name: "1984", Author: "Orwell", SectionID: 42})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, store.ErrSectionNotFound)
}

func TestBookService_CreateBook_InsertFailureRemovesFile(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)
	gomock.InOrder(
		m.attachments.EXPECT().Save(ctx, "0198-key.pdf", gomock.Any(), gomock.Any()).Return(int64(8), nil),
		m.books.EXPECT().CreateBook(ctx, gomock.Any()).Return(models.Book{}, store.ErrSectionNotFound),
		m.attachments.EXPECT().Remove(ctx, "0198-key.pdf").Return(nil),
	)

	_, err := svc.CreateBook(ctx, librarian, models.BookInput{Name: "1984", Author: "Orwell", SectionID: 1, Attachment: pdf("1984.pdf", "%PDF-1.4")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	svc, _ := newTestBookSvc(t)

	_, err := svc.CreateBook(context.Background(), librarian, models.BookInput{Name: "1984", SectionID: 1})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrEmptyAuthor)

	_, err = svc.CreateBook(context.Background(), librarian, models.BookInput{Name: "1984", Author: "Orwell"})
	assert.ErrorIs(t, err, validators.ErrInvalidSectionID)
}

// ── reads ────────────────────────────────────────────────────────────────────

func TestBookService_ListBooks(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	books := []models.Book{{BookID: 1, Name: "1984", Author: "George Orwell"}}
	m.books.EXPECT().ListBooks(ctx, models.BookFilter{Author: "orwell", SectionID: 2}).Return(books, nil)
	m.books.EXPECT().ListAuthors(ctx).Return([]string{"George Orwell"}, nil)
	m.sections.EXPECT().ListSections(ctx, "").Return([]models.Section{{SectionID: 2, Name: "Fiction"}}, nil)

	catalog, err := svc.ListBooks(ctx, member, models.BookFilter{Author: " orwell ", SectionID: 2})
	require.NoError(t, err)
	assert.Equal(t, books, catalog.Books)
	assert.Equal(t, []string{"George Orwell"}, catalog.Authors)
	assert.Len(t, catalog.Sections, 1)
}

func TestBookService_GetBook_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	m.books.EXPECT().FindBookByID(ctx, int64(3)).Return(models.Book{}, store.ErrBookNotFound)

	_, err := svc.GetBook(ctx, member, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── EditBook ─────────────────────────────────────────────────────────────────

func TestBookService_EditBook_ReplacesAttachment(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	current := models.Book{BookID: 4, Name: "Old", Author: "A", SectionID: 1, AttachmentKey: "old.pdf", AttachmentName: "old.pdf"}
	gomock.InOrder(
		m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(current, nil),
		m.sections.EXPECT().FindSectionByID(ctx, int64(2)).Return(models.Section{SectionID: 2}, nil),
		m.attachments.EXPECT().Save(ctx, "0198-key.pdf", gomock.Any(), gomock.Any()).Return(int64(8), nil),
		m.books.EXPECT().UpdateBook(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, b models.Book) (models.Book, error) {
				assert.Equal(t, "New", b.Name)
				assert.Equal(t, int64(2), b.SectionID)
				assert.Equal(t, "0198-key.pdf", b.AttachmentKey)
				return b, nil
			},
		),
		m.attachments.EXPECT().Remove(ctx, "old.pdf").Return(nil),
	)

	input := models.BookInput{Name: "New", Author: "A", SectionID: 2, Attachment: pdf("new.pdf", "%PDF-new")}
	book, err := svc.EditBook(ctx, librarian, 4, input)
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", book.AttachmentName)
}

func TestBookService_EditBook_KeepsAttachment(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestBookSvc(t)

	current := models.Book{BookID: 4, Name: "Old", Author: "A", SectionID: 1, AttachmentKey: "old.pdf"}
	m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(current, nil)
	m.sections.EXPECT().FindSectionByID(ctx, int64(1)).Return(models.Section{SectionID: 1}, nil)
	m.books.EXPECT().UpdateBook(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, b models.Book) (models.Book, error) {
			assert.Equal(t, "old.pdf", b.AttachmentKey)
			return b, nil
		},
	)

	_, err := svc.EditBook(ctx, librarian, 4, models.BookInput{Name: "Renamed", Author: "A", SectionID: 1})
	require.NoError(t, err)
}

func TestBookService_EditBook_NotFound(t *testing.T) {
	ctx := context.Background()
	input := models.BookInput{Name: "N", Author: "A", SectionID: 9}

	t.Run("unknown book", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(models.Book{}, store.ErrBookNotFound)

		_, err := svc.EditBook(ctx, librarian, 4, input)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown section", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(models.Book{BookID: 4}, nil)
		m.sections.EXPECT().FindSectionByID(ctx, int64(9)).Return(models.Section{}, store.ErrSectionNotFound)

		_, err := svc.EditBook(ctx, librarian, 4, input)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-positive section", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(models.Book{BookID: 4}, nil)

		_, err := svc.EditBook(ctx, librarian, 4, models.BookInput{Name: "N", Author: "A"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update failure removes new file", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().FindBookByID(ctx, int64(4)).Return(models.Book{BookID: 4, AttachmentKey: "old.pdf"}, nil)
		m.sections.EXPECT().FindSectionByID(ctx, int64(9)).Return(models.Section{SectionID: 9}, nil)
		m.attachments.EXPECT().Save(ctx, "0198-key.pdf", gomock.Any(), gomock.Any()).Return(int64(4), nil)
		m.books.EXPECT().UpdateBook(ctx, gomock.Any()).Return(models.Book{}, store.ErrBookNotFound)
		m.attachments.EXPECT().Remove(ctx, "0198-key.pdf").Return(nil)

		withFile := input
		withFile.Attachment = pdf("x.pdf", "%PDF")
		_, err := svc.EditBook(ctx, librarian, 4, withFile)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ── DeleteBook / FetchAttachment ─────────────────────────────────────────────

func TestBookService_DeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("removes attachment", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		gomock.InOrder(
			m.books.EXPECT().DeleteBook(ctx, int64(4)).Return(models.Book{BookID: 4, AttachmentKey: "k.pdf"}, nil),
			m.attachments.EXPECT().Remove(ctx, "k.pdf").Return(nil),
		)
		assert.NoError(t, svc.DeleteBook(ctx, librarian, 4))
	})

	t.Run("without attachment", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().DeleteBook(ctx, int64(4)).Return(models.Book{BookID: 4}, nil)
		assert.NoError(t, svc.DeleteBook(ctx, librarian, 4))
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.books.EXPECT().DeleteBook(ctx, int64(4)).Return(models.Book{}, store.ErrBookNotFound)
		assert.ErrorIs(t, svc.DeleteBook(ctx, librarian, 4), ErrNotFound)
	})
}

type nopReadSeekCloser struct {
	*strings.Reader
}

func (nopReadSeekCloser) Close() error { return nil }

func TestBookService_FetchAttachment(t *testing.T) {
	ctx := context.Background()

	file := models.AttachmentFile{Key: "k.pdf", Name: "k.pdf", Content: nopReadSeekCloser{strings.NewReader("%PDF")}}

	t.Run("download name from owning book", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.attachments.EXPECT().Open(ctx, "k.pdf").Return(file, nil)
		m.books.EXPECT().FindBookByAttachmentKey(ctx, "k.pdf").Return(models.Book{AttachmentName: "1984.pdf"}, nil)

		got, err := svc.FetchAttachment(ctx, member, "k.pdf")
		require.NoError(t, err)
		assert.Equal(t, "1984.pdf", got.Name)
	})

	t.Run("orphan file keeps its key as name", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.attachments.EXPECT().Open(ctx, "k.pdf").Return(file, nil)
		m.books.EXPECT().FindBookByAttachmentKey(ctx, "k.pdf").Return(models.Book{}, store.ErrBookNotFound)

		got, err := svc.FetchAttachment(ctx, member, "k.pdf")
		require.NoError(t, err)
		assert.Equal(t, "k.pdf", got.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		svc, m := newTestBookSvc(t)
		m.attachments.EXPECT().Open(ctx, "../etc/passwd").Return(models.AttachmentFile{}, store.ErrAttachmentNotFound)

		_, err := svc.FetchAttachment(ctx, member, "../etc/passwd")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ── helpers ──────────────────────────────────────────────────────────────────

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"book.pdf", "book.pdf"},
		{"/tmp/dir/book.pdf", "book.pdf"},
		{`C:\Users\me\book.pdf`, "book.pdf"},
		{"bad\x00\nname\".pdf", "badname.pdf"},
		{"", "attachment.pdf"},
		{"..", "attachment.pdf"},
		{"../", "attachment.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}

	long := strings.Repeat("x", 300) + ".pdf"
	got := sanitizeFilename(long)
	assert.Len(t, []rune(got), maxAttachmentNameLength)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}
