// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/models"
)

// ErrAttachmentTooLarge is returned by Save when content exceeds the limit.
var ErrAttachmentTooLarge = errors.New("attachment is too large")

// attachmentFileStorage keeps attachments as flat files inside one upload
// directory.
//
// Every access goes through an [os.Root] opened on that directory, so a key
// can never resolve to a file outside of it, whatever it contains.
type attachmentFileStorage struct {
	root   *os.Root
	logger *logger.Logger
}

// NewAttachmentFileStorage creates dir when missing and opens it as the
// storage root.
func NewAttachmentFileStorage(dir string, logger *logger.Logger) (AttachmentStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating upload directory %q: %w", dir, err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("error opening upload directory %q: %w", dir, err)
	}

	logger.Debug().Str("dir", dir).Msg("creating attachment file storage")
	return &attachmentFileStorage{
		root:   root,
		logger: logger,
	}, nil
}

// validKey accepts only plain file names: no separators, no dot entries.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." &&
		!strings.ContainsAny(key, `/\`) && filepath.Base(key) == key
}

// Save writes content to a temporary file and renames it to key once fully
// written, so readers never observe a partial attachment.
func (s *attachmentFileStorage) Save(ctx context.Context, key string, content io.Reader, maxSize int64) (int64, error) {
	log := logger.FromContext(ctx)

	if !validKey(key) {
		return 0, fmt.Errorf("invalid attachment key %q", key)
	}

	tmpName := key + ".part"
	f, err := s.root.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		log.Err(err).Str("func", "*attachmentFileStorage.Save").Msg("error creating attachment file")
		return 0, fmt.Errorf("error creating attachment file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(contextReader{ctx: ctx, r: content}, maxSize+1))
	closeErr := f.Close()
	switch {
	case err != nil:
	case closeErr != nil:
		err = closeErr
	case written > maxSize:
		err = ErrAttachmentTooLarge
	}
	if err != nil {
		_ = s.root.Remove(tmpName)
		if !errors.Is(err, ErrAttachmentTooLarge) {
			log.Err(err).Str("func", "*attachmentFileStorage.Save").Msg("error writing attachment file")
		}
		return 0, fmt.Errorf("error writing attachment file: %w", err)
	}

	if err := s.root.Rename(tmpName, key); err != nil {
		_ = s.root.Remove(tmpName)
		log.Err(err).Str("func", "*attachmentFileStorage.Save").Msg("error publishing attachment file")
		return 0, fmt.Errorf("error publishing attachment file: %w", err)
	}

	return written, nil
}

func (s *attachmentFileStorage) Open(ctx context.Context, key string) (models.AttachmentFile, error) {
	if !validKey(key) {
		return models.AttachmentFile{}, ErrAttachmentNotFound
	}

	f, err := s.root.Open(key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.FromContext(ctx).Err(err).Str("func", "*attachmentFileStorage.Open").Msg("error opening attachment")
		}
		return models.AttachmentFile{}, ErrAttachmentNotFound
	}

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		_ = f.Close()
		return models.AttachmentFile{}, ErrAttachmentNotFound
	}

	return models.AttachmentFile{
		Key:     key,
		Name:    key,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Content: f,
	}, nil
}

func (s *attachmentFileStorage) Remove(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrAttachmentNotFound
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrAttachmentNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*attachmentFileStorage.Remove").Msg("error removing attachment")
		return fmt.Errorf("error removing attachment: %w", err)
	}

	return nil
}

// contextReader stops a copy once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
