package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
)

// pdfSignature starts every PDF document.
var pdfSignature = []byte("%PDF")

const maxAttachmentNameLength = 255

// storedAttachment is an upload written to the attachment storage.
type storedAttachment struct {
	Key  string
	Name string
}

// saveAttachment checks the PDF signature of upload and writes it under a
// fresh key ending in ".pdf".
func saveAttachment(
	ctx context.Context,
	storage store.AttachmentStorage,
	key string,
	upload models.AttachmentUpload,
	maxSize int64,
) (storedAttachment, error) {
	head := make([]byte, len(pdfSignature))
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return storedAttachment{}, fmt.Errorf("error reading attachment: %w", err)
	}
	if !bytes.Equal(head[:n], pdfSignature) {
		return storedAttachment{}, fmt.Errorf("%w: %w", ErrValidation, validators.ErrAttachmentNotPDF)
	}

	content := io.MultiReader(bytes.NewReader(head), upload.Content)
	if _, err = storage.Save(ctx, key, content, maxSize); err != nil {
		if errors.Is(err, store.ErrAttachmentTooLarge) {
			return storedAttachment{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return storedAttachment{}, fmt.Errorf("error saving attachment: %w", err)
	}

	return storedAttachment{Key: key, Name: sanitizeFilename(upload.Filename)}, nil
}

// removeAttachment deletes a stored file, logging failures. A file that is
// already gone is not a failure.
func removeAttachment(ctx context.Context, storage store.AttachmentStorage, key string) {
	if key == "" {
		return
	}

	err := storage.Remove(ctx, key)
	if err != nil && !errors.Is(err, store.ErrAttachmentNotFound) {
		logger.FromContext(ctx).Err(err).Str("key", key).Msg("error removing attachment")
	}
}

// sanitizeFilename keeps the base name of a client-supplied file name,
// without directories or control characters.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "attachment.pdf"
	}
	if runes := []rune(name); len(runes) > maxAttachmentNameLength {
		ext := []rune(path.Ext(name))
		if len(ext) > 16 {
			ext = nil
		}
		name = string(runes[:maxAttachmentNameLength-len(ext)]) + string(ext)
	}

	return name
}
