// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user-submitted form input before it reaches the
// account and catalog services.
//
// A Validator accepts any supported value (registration, section input, book
// input) and optionally a list of field names restricting which rules run.
// Every rule failure is a package sentinel error so callers can map it to a
// message with errors.Is.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
