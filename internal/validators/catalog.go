package validators

import (
	"context"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-library-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldAuthor     = "author"
	FieldSectionID  = "section_id"
	FieldAttachment = "attachment"
)

// Column limits of the schema.
const (
	MaxNameLength   = 80
	MaxEmailLength  = 120
	MaxAuthorLength = 80
)

// CatalogValidator validates registrations, section inputs and book inputs.
// Values are expected to be trimmed already.
type CatalogValidator struct {
}

func NewCatalogValidator() Validator {
	return &CatalogValidator{}
}

func (v *CatalogValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Registration:
		return v.validateRegistration(value, fields...)
	case *models.Registration:
		return v.validateRegistration(*value, fields...)

	case models.SectionInput:
		return v.validateSectionInput(value, fields...)
	case *models.SectionInput:
		return v.validateSectionInput(*value, fields...)

	case models.BookInput:
		return v.validateBookInput(value, fields...)
	case *models.BookInput:
		return v.validateBookInput(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *CatalogValidator) validateRegistration(reg models.Registration, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := checkName(reg.Name); err != nil {
				return err
			}
		case FieldEmail:
			if err := checkEmail(reg.Email); err != nil {
				return err
			}
		case FieldPassword:
			if reg.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *CatalogValidator) validateSectionInput(input models.SectionInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := checkName(input.Name); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func (v *CatalogValidator) validateBookInput(input models.BookInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldAuthor, FieldSectionID, FieldAttachment}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := checkName(input.Name); err != nil {
				return err
			}
		case FieldAuthor:
			if input.Author == "" {
				return ErrEmptyAuthor
			}
			if utf8.RuneCountInString(input.Author) > MaxAuthorLength {
				return ErrAuthorTooLong
			}
		case FieldSectionID:
			if input.SectionID <= 0 {
				return ErrInvalidSectionID
			}
		case FieldAttachment:
			if input.Attachment == nil {
				continue
			}
			if err := checkAttachment(*input.Attachment); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// checkEmail accepts a bare address ("user@host"); display-name forms such
// as "Alice <a@x.io>" are rejected.
func checkEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// checkAttachment checks what can be known before reading the upload: a
// file name with the .pdf extension and a non-zero size. The content
// signature is checked when the file is stored.
func checkAttachment(upload models.AttachmentUpload) error {
	name := strings.TrimSpace(upload.Filename)
	if name == "" {
		return ErrAttachmentNoName
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ErrAttachmentNotPDF
	}
	if upload.Size == 0 {
		return ErrAttachmentIsEmpty
	}
	return nil
}
