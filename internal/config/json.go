package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the layout accepted in
// JSON config files.
type StructuredJSONConfig struct {
	App struct {
		SessionSignKey    string   `json:"session_sign_key"`
		SessionIssuer     string   `json:"session_issuer"`
		SessionDuration   Duration `json:"session_duration"`
		SessionCookieName string   `json:"session_cookie_name"`
		SecureCookies     bool     `json:"secure_cookies"`
		PasswordHashCost  int      `json:"password_hash_cost"`
		LogLevel          string   `json:"log_level"`
		Librarian         struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"librarian,omitempty"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			UploadDir     string `json:"upload_dir"`
			MaxUploadSize int64  `json:"max_upload_size"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		SessionCleanupInterval Duration `json:"session_cleanup_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			SessionSignKey:    jsonCfg.App.SessionSignKey,
			SessionIssuer:     jsonCfg.App.SessionIssuer,
			SessionDuration:   time.Duration(jsonCfg.App.SessionDuration),
			SessionCookieName: jsonCfg.App.SessionCookieName,
			SecureCookies:     jsonCfg.App.SecureCookies,
			PasswordHashCost:  jsonCfg.App.PasswordHashCost,
			LogLevel:          jsonCfg.App.LogLevel,
			Librarian: Librarian{
				Name:     jsonCfg.App.Librarian.Name,
				Email:    jsonCfg.App.Librarian.Email,
				Password: jsonCfg.App.Librarian.Password,
			},
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				UploadDir:     jsonCfg.Storage.Files.UploadDir,
				MaxUploadSize: jsonCfg.Storage.Files.MaxUploadSize,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Workers: Workers{
			SessionCleanupInterval: time.Duration(jsonCfg.Workers.SessionCleanupInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
