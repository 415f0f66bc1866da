// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] is usable before
// anything is started. Each failing group is reported with its sentinel
// error so callers can match it with errors.Is.
func (cfg *StructuredConfig) validate() error {
	app := cfg.App
	switch {
	case strings.TrimSpace(app.SessionSignKey) == "":
		return fmt.Errorf("%w: session sign key is required", ErrInvalidAppConfigs)
	case app.SessionIssuer == "" || app.SessionCookieName == "":
		return fmt.Errorf("%w: session issuer and cookie name are required", ErrInvalidAppConfigs)
	case app.SessionDuration <= 0:
		return fmt.Errorf("%w: session duration must be positive", ErrInvalidAppConfigs)
	case app.PasswordHashCost < bcrypt.MinCost || app.PasswordHashCost > bcrypt.MaxCost:
		return fmt.Errorf("%w: password hash cost must be in range %d-%d", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost)
	case app.Librarian.Name == "" || app.Librarian.Email == "" || app.Librarian.Password == "":
		return fmt.Errorf("%w: librarian credentials are required", ErrInvalidAppConfigs)
	}

	if _, err := zerolog.ParseLevel(app.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	if cfg.Storage.DB.DSN == "" || cfg.Storage.Files.UploadDir == "" || cfg.Storage.Files.MaxUploadSize <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 || cfg.Server.ShutdownTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.SessionCleanupInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
