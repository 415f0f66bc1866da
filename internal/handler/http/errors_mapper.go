package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-library-keeper/internal/app"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
)

// validationMessages maps the cause of an ErrValidation to its notice.
// Order matters: the first match wins.
var validationMessages = []struct {
	err error
	msg string
}{
	{validators.ErrEmptyName, app.MsgNameRequired},
	{validators.ErrNameTooLong, app.MsgNameTooLong},
	{validators.ErrEmptyEmail, app.MsgEmailRequired},
	{validators.ErrInvalidEmail, app.MsgEmailInvalid},
	{validators.ErrEmailTooLong, app.MsgEmailTooLong},
	{validators.ErrEmptyPassword, app.MsgPasswordEmpty},
	{validators.ErrEmptyAuthor, app.MsgAuthorRequired},
	{validators.ErrAuthorTooLong, app.MsgAuthorTooLong},
	{validators.ErrInvalidSectionID, app.MsgSectionRequired},
	{store.ErrSectionNotFound, app.MsgSectionRequired},
	{validators.ErrAttachmentNotPDF, app.MsgFileNotPDF},
	{validators.ErrAttachmentNoName, app.MsgFileNotPDF},
	{validators.ErrAttachmentIsEmpty, app.MsgFileEmpty},
	{store.ErrAttachmentTooLarge, app.MsgFileTooLarge},
	{errFormTooLarge, app.MsgFileTooLarge},
	{errInvalidForm, app.MsgInvalidForm},
}

var notFoundMessages = []struct {
	err error
	msg string
}{
	{store.ErrBookNotFound, app.MsgBookNotFound},
	{store.ErrSectionNotFound, app.MsgSectionNotFound},
}

// errorResponse is where a failed request is sent and what it is told.
type errorResponse struct {
	redirect string
	notice   string
}

// responseFromError converts a service error into a notice and a redirect.
// formURL is the page the visitor submitted from, listURL the listing the
// missing entity would have been on.
func responseFromError(err error, formURL, listURL string) errorResponse {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return errorResponse{redirect: "/login", notice: app.MsgLoginRequired}
	case errors.Is(err, service.ErrForbidden):
		return errorResponse{redirect: "/", notice: app.MsgLibrarianOnly}
	case errors.Is(err, service.ErrDuplicateEmail):
		return errorResponse{redirect: formURL, notice: app.MsgUserAlreadyExists}
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorResponse{redirect: formURL, notice: app.MsgInvalidCredentials}
	case errors.Is(err, service.ErrValidation):
		return errorResponse{redirect: formURL, notice: firstMessage(err, validationMessages, app.MsgInvalidDataProvided)}
	case errors.Is(err, service.ErrNotFound):
		return errorResponse{redirect: listURL, notice: firstMessage(err, notFoundMessages, app.MsgBookNotFound)}
	}
	return errorResponse{redirect: formURL, notice: app.MsgInternalServerError}
}

func firstMessage(err error, table []struct {
	err error
	msg string
}, fallback string) string {
	for _, entry := range table {
		if errors.Is(err, entry.err) {
			return entry.msg
		}
	}
	return fallback
}

// redirectWithError logs err and redirects with the matching error notice.
// Unexpected errors are logged at error level with the trace id.
func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, err error, formURL, listURL string) {
	resp := responseFromError(err, formURL, listURL)

	log := logger.FromRequest(r)
	if resp.notice == app.MsgInternalServerError {
		log.Err(err).Msg("unexpected error occurred during request")
	} else {
		log.Debug().Err(err).Str("redirect", resp.redirect).Msg("request rejected")
	}

	h.redirectWithNotice(w, r, resp.redirect, app.NoticeError, resp.notice)
}

// statusFromError picks the status of a non-page response such as an
// attachment download.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
