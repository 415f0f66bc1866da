package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-library-keeper/internal/app"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/models"
)

const (
	// formMemory is how much of a multipart form is kept in memory; larger
	// file parts spill to temporary files.
	formMemory = 1 << 20

	// formOverhead is the room left for the text fields and multipart
	// framing on top of the attachment size limit.
	formOverhead = 1 << 20
)

type booksPage struct {
	Filter  models.BookFilter
	Catalog models.BookCatalog
}

type bookFormPage struct {
	Action   string
	Book     models.Book
	Sections []models.Section
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)

	query := r.URL.Query()
	filter := models.BookFilter{
		Search: query.Get("search"),
		Author: query.Get("author"),
	}
	// an unparsable section_id filters nothing, like an empty one
	if sectionID, err := strconv.ParseInt(query.Get("section_id"), 10, 64); err == nil && sectionID > 0 {
		filter.SectionID = sectionID
	}

	catalog, err := h.services.BookService.ListBooks(ctx, identity, filter)
	if err != nil {
		h.redirectWithError(w, r, err, "/", "/")
		return
	}

	h.render(w, r, http.StatusOK, pageBooks, "Books", booksPage{Filter: filter, Catalog: catalog})
}

func (h *Handler) createBookPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	sections, err := h.services.SectionService.ListSections(ctx, identity, "")
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	book := models.Book{}
	if sectionID, err := strconv.ParseInt(r.URL.Query().Get("section_id"), 10, 64); err == nil {
		book.SectionID = sectionID
	}

	h.render(w, r, http.StatusOK, pageBookForm, "Add book", bookFormPage{
		Action:   "/books/create",
		Book:     book,
		Sections: sections,
	})
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/books/create", "/books")
		return
	}

	input, cleanup, err := h.bookInputFromForm(w, r)
	defer cleanup()
	if err != nil {
		h.redirectWithError(w, r, err, "/books/create", "/books")
		return
	}

	if _, err = h.services.BookService.CreateBook(ctx, identity, input); err != nil {
		h.redirectWithError(w, r, err, "/books/create", "/books")
		return
	}

	h.redirectWithNotice(w, r, "/books", app.NoticeSuccess, app.MsgBookCreated)
}

func (h *Handler) editBookPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	bookID, err := pathID(r, store.ErrBookNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	book, err := h.services.BookService.GetBook(ctx, identity, bookID)
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	sections, err := h.services.SectionService.ListSections(ctx, identity, "")
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	h.render(w, r, http.StatusOK, pageBookForm, "Edit book", bookFormPage{
		Action:   fmt.Sprintf("/books/%d/edit", bookID),
		Book:     book,
		Sections: sections,
	})
}

func (h *Handler) editBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	bookID, err := pathID(r, store.ErrBookNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}
	formURL := fmt.Sprintf("/books/%d/edit", bookID)

	input, cleanup, err := h.bookInputFromForm(w, r)
	defer cleanup()
	if err != nil {
		h.redirectWithError(w, r, err, formURL, "/books")
		return
	}

	if _, err = h.services.BookService.EditBook(ctx, identity, bookID, input); err != nil {
		h.redirectWithError(w, r, err, formURL, "/books")
		return
	}

	h.redirectWithNotice(w, r, "/books", app.NoticeSuccess, app.MsgBookUpdated)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	bookID, err := pathID(r, store.ErrBookNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	if err = h.services.BookService.DeleteBook(ctx, identity, bookID); err != nil {
		h.redirectWithError(w, r, err, "/books", "/books")
		return
	}

	h.redirectWithNotice(w, r, "/books", app.NoticeSuccess, app.MsgBookDeleted)
}

// bookInputFromForm decodes a url-encoded or multipart book form. The body
// is capped at the upload limit plus formOverhead. The returned cleanup
// releases the temporary files of the multipart form and must always be
// called.
func (h *Handler) bookInputFromForm(w http.ResponseWriter, r *http.Request) (models.BookInput, func(), error) {
	cleanup := func() {}

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	}

	err := r.ParseMultipartForm(formMemory)
	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() {
			if err := form.RemoveAll(); err != nil {
				logger.FromRequest(r).Err(err).Msg("error removing multipart temp files")
			}
		}
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return models.BookInput{}, cleanup, formError(errFormTooLarge)
	case err != nil && !errors.Is(err, http.ErrNotMultipart):
		return models.BookInput{}, cleanup, formError(fmt.Errorf("%w: %w", errInvalidForm, err))
	}

	// a missing or unparsable section id is left at zero and rejected by
	// the service
	sectionID, _ := strconv.ParseInt(r.PostFormValue("section_id"), 10, 64)

	input := models.BookInput{
		Name:      r.PostFormValue("name"),
		Author:    r.PostFormValue("author"),
		Content:   r.PostFormValue("content"),
		SectionID: sectionID,
	}

	attachment, file, err := attachmentFromForm(r.MultipartForm)
	if err != nil {
		return models.BookInput{}, cleanup, err
	}
	if file != nil {
		removeForm := cleanup
		cleanup = func() {
			_ = file.Close()
			removeForm()
		}
	}
	input.Attachment = attachment

	return input, cleanup, nil
}

// attachmentFromForm opens the "file" part of form, if one was uploaded.
// Browsers submit an empty file input as a part without a file name, which
// multipart treats as a plain value, so it yields no attachment.
// The caller closes the returned file.
func attachmentFromForm(form *multipart.Form) (*models.AttachmentUpload, multipart.File, error) {
	if form == nil || len(form.File["file"]) == 0 {
		return nil, nil, nil
	}

	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("error opening uploaded file: %w", err)
	}

	return &models.AttachmentUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, file, nil
}
