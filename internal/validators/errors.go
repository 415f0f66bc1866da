package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyName         = errors.New("name is required")
	ErrNameTooLong       = errors.New("name is too long")
	ErrEmptyEmail        = errors.New("email is required")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmailTooLong      = errors.New("email is too long")
	ErrEmptyPassword     = errors.New("password is required")
	ErrEmptyAuthor       = errors.New("author is required")
	ErrAuthorTooLong     = errors.New("author is too long")
	ErrInvalidSectionID  = errors.New("invalid section id")
	ErrAttachmentNotPDF  = errors.New("attachment must be a pdf file")
	ErrAttachmentNoName  = errors.New("attachment has no file name")
	ErrAttachmentIsEmpty = errors.New("attachment is empty")
)
