// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-library-keeper/internal/service"
)

// Form decoding errors. They are wrapped with [service.ErrValidation] so the
// error mapper sends the visitor back to the form.
var (
	// errInvalidForm is returned when the request body cannot be parsed as a
	// url-encoded or multipart form.
	errInvalidForm = errors.New("invalid form")

	// errFormTooLarge is returned when the request body exceeds the upload
	// limit.
	errFormTooLarge = errors.New("form is too large")
)

func formError(err error) error {
	return fmt.Errorf("%w: %w", service.ErrValidation, err)
}
