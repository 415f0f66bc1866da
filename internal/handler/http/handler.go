package http

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	pages pages

	cookieName     string
	secureCookies  bool
	maxUploadSize  int64
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("error parsing page templates: %w", err)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		pages:          pages,
		cookieName:     cfg.App.SessionCookieName,
		secureCookies:  cfg.App.SecureCookies,
		maxUploadSize:  cfg.Storage.Files.MaxUploadSize,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}, nil
}
