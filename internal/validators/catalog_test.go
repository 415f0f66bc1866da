// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validRegistration() models.Registration {
	return models.Registration{Name: "Alice", Email: "alice@x.io", Password: "pw"}
}

func validBookInput() models.BookInput {
	return models.BookInput{Name: "1984", Author: "Orwell", SectionID: 1}
}

func pdfUpload(name string, size int64) *models.AttachmentUpload {
	return &models.AttachmentUpload{Filename: name, Size: size, Content: strings.NewReader("%PDF")}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewCatalogValidator()
	ctx := context.Background()

	reg := validRegistration()
	section := models.SectionInput{Name: "Fiction"}
	book := validBookInput()

	assert.NoError(t, v.Validate(ctx, reg))
	assert.NoError(t, v.Validate(ctx, &reg))
	assert.NoError(t, v.Validate(ctx, section))
	assert.NoError(t, v.Validate(ctx, &section))
	assert.NoError(t, v.Validate(ctx, book))
	assert.NoError(t, v.Validate(ctx, &book))

	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, models.Book{}), ErrUnsupportedType)
}

func TestValidate_UnknownField(t *testing.T) {
	v := NewCatalogValidator()
	err := v.Validate(context.Background(), validRegistration(), "nickname")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, err.Error(), "nickname")
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestValidate_Registration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.Registration)
		want   error
	}{
		{"valid", func(r *models.Registration) {}, nil},
		{"empty name", func(r *models.Registration) { r.Name = "" }, ErrEmptyName},
		{"long name", func(r *models.Registration) { r.Name = strings.Repeat("n", MaxNameLength+1) }, ErrNameTooLong},
		{"name at limit", func(r *models.Registration) { r.Name = strings.Repeat("n", MaxNameLength) }, nil},
		{"multibyte name at limit", func(r *models.Registration) { r.Name = strings.Repeat("я", MaxNameLength) }, nil},
		{"empty email", func(r *models.Registration) { r.Email = "" }, ErrEmptyEmail},
		{"malformed email", func(r *models.Registration) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"display name form", func(r *models.Registration) { r.Email = "Alice <alice@x.io>" }, ErrInvalidEmail},
		{"long email", func(r *models.Registration) { r.Email = strings.Repeat("a", MaxEmailLength) + "@x.io" }, ErrEmailTooLong},
		{"empty password", func(r *models.Registration) { r.Password = "" }, ErrEmptyPassword},
	}

	v := NewCatalogValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)
			err := v.Validate(context.Background(), reg)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_Registration_FieldScoping(t *testing.T) {
	v := NewCatalogValidator()
	reg := models.Registration{Email: "alice@x.io"}

	require.NoError(t, v.Validate(context.Background(), reg, FieldEmail))
	assert.ErrorIs(t, v.Validate(context.Background(), reg, FieldEmail, FieldPassword), ErrEmptyPassword)
}

// ---------------------------------------------------------------------------
// Sections
// ---------------------------------------------------------------------------

func TestValidate_SectionInput(t *testing.T) {
	v := NewCatalogValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.SectionInput{Name: "Fiction"}))
	assert.ErrorIs(t, v.Validate(ctx, models.SectionInput{Description: "only"}), ErrEmptyName)
	assert.ErrorIs(t, v.Validate(ctx, models.SectionInput{Name: strings.Repeat("s", 81)}), ErrNameTooLong)
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

func TestValidate_BookInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *models.BookInput)
		want   error
	}{
		{"valid without attachment", func(b *models.BookInput) {}, nil},
		{"valid with attachment", func(b *models.BookInput) { b.Attachment = pdfUpload("book.pdf", 10) }, nil},
		{"upper-case extension", func(b *models.BookInput) { b.Attachment = pdfUpload("BOOK.PDF", 10) }, nil},
		{"empty name", func(b *models.BookInput) { b.Name = "" }, ErrEmptyName},
		{"empty author", func(b *models.BookInput) { b.Author = "" }, ErrEmptyAuthor},
		{"long author", func(b *models.BookInput) { b.Author = strings.Repeat("a", 81) }, ErrAuthorTooLong},
		{"zero section", func(b *models.BookInput) { b.SectionID = 0 }, ErrInvalidSectionID},
		{"negative section", func(b *models.BookInput) { b.SectionID = -3 }, ErrInvalidSectionID},
		{"not a pdf", func(b *models.BookInput) { b.Attachment = pdfUpload("book.txt", 10) }, ErrAttachmentNotPDF},
		{"no extension", func(b *models.BookInput) { b.Attachment = pdfUpload("book", 10) }, ErrAttachmentNotPDF},
		{"no file name", func(b *models.BookInput) { b.Attachment = pdfUpload("  ", 10) }, ErrAttachmentNoName},
		{"empty file", func(b *models.BookInput) { b.Attachment = pdfUpload("book.pdf", 0) }, ErrAttachmentIsEmpty},
	}

	v := NewCatalogValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validBookInput()
			tt.mutate(&input)
			err := v.Validate(context.Background(), input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
