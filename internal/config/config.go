// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// library application. It aggregates all sub-configurations and is populated
// by merging built-in defaults, environment variables, command-line flags and
// an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session, password hashing, logging and bootstrap settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the relational database and the
	// attachment upload directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// SessionSignKey is the secret used to sign session cookies with
	// HMAC-SHA256. Required.
	// Env: APP_SESSION_SIGN_KEY
	SessionSignKey string `env:"SESSION_SIGN_KEY"`

	// SessionIssuer is the "iss" claim embedded in every session token and
	// checked on every request.
	// Env: APP_SESSION_ISSUER
	SessionIssuer string `env:"SESSION_ISSUER"`

	// SessionDuration is how long a login session stays valid.
	// Env: APP_SESSION_DURATION
	SessionDuration time.Duration `env:"SESSION_DURATION"`

	// SessionCookieName is the name of the cookie carrying the session token.
	// Env: APP_SESSION_COOKIE_NAME
	SessionCookieName string `env:"SESSION_COOKIE_NAME"`

	// SecureCookies marks session and notice cookies as Secure. Enable it
	// whenever the application is served over HTTPS.
	// Env: APP_SECURE_COOKIES
	SecureCookies bool `env:"SECURE_COOKIES"`

	// PasswordHashCost is the bcrypt cost factor.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Librarian holds the credentials of the librarian account created on
	// first start when no librarian exists.
	Librarian Librarian `envPrefix:"LIBRARIAN_"`
}

// Librarian holds the bootstrap librarian credentials.
type Librarian struct {
	// Env: APP_LIBRARIAN_NAME
	Name string `env:"NAME"`
	// Env: APP_LIBRARIAN_EMAIL
	Email string `env:"EMAIL"`
	// Env: APP_LIBRARIAN_PASSWORD
	Password string `env:"PASSWORD"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the upload directory settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the backend: a "postgres://" or "postgresql://" URL opens
	// PostgreSQL through pgx, anything else is treated as a SQLite file path
	// (or "file:" URI).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings for book attachments.
type Files struct {
	// UploadDir is the directory attachments are stored in and served from.
	// Env: STORAGE_FILES_UPLOAD_DIR
	UploadDir string `env:"UPLOAD_DIR"`

	// MaxUploadSize is the largest accepted attachment in bytes.
	// Env: STORAGE_FILES_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`
}

// Server holds network and timeout settings for the HTTP server.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds the handling of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SessionCleanupInterval is how often expired and revoked sessions are
	// purged.
	// Env: WORKERS_SESSION_CLEANUP_INTERVAL
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL"`
}

// Default values applied before any other configuration source.
const (
	DefaultSessionIssuer          = "go-library-keeper"
	DefaultSessionDuration        = 24 * time.Hour
	DefaultSessionCookieName      = "library_session"
	DefaultPasswordHashCost       = 10
	DefaultLogLevel               = "info"
	DefaultLibrarianName          = "librarian"
	DefaultLibrarianEmail         = "librarian@library.com"
	DefaultLibrarianPassword      = "1"
	DefaultDSN                    = "library.sqlite3"
	DefaultUploadDir              = "static/uploads"
	DefaultMaxUploadSize          = 16 << 20
	DefaultHTTPAddress            = "localhost:8080"
	DefaultRequestTimeout         = 30 * time.Second
	DefaultShutdownTimeout        = 10 * time.Second
	DefaultSessionCleanupInterval = time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			SessionIssuer:     DefaultSessionIssuer,
			SessionDuration:   DefaultSessionDuration,
			SessionCookieName: DefaultSessionCookieName,
			PasswordHashCost:  DefaultPasswordHashCost,
			LogLevel:          DefaultLogLevel,
			Librarian: Librarian{
				Name:     DefaultLibrarianName,
				Email:    DefaultLibrarianEmail,
				Password: DefaultLibrarianPassword,
			},
		},
		Storage: Storage{
			DB:    DB{DSN: DefaultDSN},
			Files: Files{UploadDir: DefaultUploadDir, MaxUploadSize: DefaultMaxUploadSize},
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Workers: Workers{
			SessionCleanupInterval: DefaultSessionCleanupInterval,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags parsed from args
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

// LoadConfig builds a configuration without command-line flags, for tools
// that own their own flag set. jsonPath, when non-empty, takes precedence
// over the CONFIG environment variable.
func LoadConfig(jsonPath string) (*StructuredConfig, error) {
	b := newConfigBuilder().
		withDefaults().
		withEnv()
	if jsonPath != "" {
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: jsonPath})
	}

	return b.withJSON().build()
}
