// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-visible notice texts shared by the page
// handlers and the error mapper of the library web application.
//
// Notices are shown once on the page a request is redirected to. Keeping the
// wording in one place keeps it consistent across handlers.
package app

const (
	// MsgRegistered is shown on the login page after a successful sign-up.
	MsgRegistered = "User registered successfully!"

	// MsgUserAlreadyExists is shown when the submitted email is taken.
	MsgUserAlreadyExists = "User already exists!"

	// MsgInvalidCredentials is shown for an unknown email and for a wrong
	// password alike.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgLoggedOut is shown on the login page after logout.
	MsgLoggedOut = "You have been logged out."

	// MsgLoginRequired is shown when an anonymous visitor opens a page that
	// needs a session.
	MsgLoginRequired = "Please log in to access this page."

	// MsgLibrarianOnly is shown when a member attempts a catalog change.
	MsgLibrarianOnly = "Only librarians can do that."

	// MsgInvalidDataProvided is the fallback for a validation failure that
	// has no more specific text.
	MsgInvalidDataProvided = "Invalid data provided."

	// MsgInvalidForm is shown when the request body cannot be parsed.
	MsgInvalidForm = "The form could not be read."

	MsgNameRequired    = "Name is required."
	MsgNameTooLong     = "Name is too long."
	MsgEmailRequired   = "Email is required."
	MsgEmailInvalid    = "Email address is not valid."
	MsgEmailTooLong    = "Email address is too long."
	MsgPasswordEmpty   = "Password is required."
	MsgAuthorRequired  = "Author is required."
	MsgAuthorTooLong   = "Author is too long."
	MsgSectionRequired = "Please choose an existing section."
	MsgFileNotPDF      = "Only PDF files can be attached."
	MsgFileEmpty       = "The attached file is empty."
	MsgFileTooLarge    = "The attached file is too large."

	MsgSectionCreated  = "Section created."
	MsgSectionUpdated  = "Section updated."
	MsgSectionDeleted  = "Section and all of its books deleted."
	MsgSectionNotFound = "Section not found."

	MsgBookCreated  = "Book created."
	MsgBookUpdated  = "Book updated."
	MsgBookDeleted  = "Book deleted."
	MsgBookNotFound = "Book not found."

	// MsgInternalServerError is shown for any failure the visitor cannot
	// resolve. The underlying error is logged with the trace id.
	MsgInternalServerError = "Internal server error. Please try again later."
)

// Notice kinds, used as the CSS class of the rendered notice.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)
