package service

import (
	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
)

type Services struct {
	AuthService    AuthService
	SectionService SectionService
	BookService    BookService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	validator := validators.NewCatalogValidator()
	idGenerator := utils.NewUUIDGenerator()

	return &Services{
		AuthService:    NewAuthService(storages, validator, idGenerator, cfg.App, logger),
		SectionService: NewSectionService(storages, validator, logger),
		BookService:    NewBookService(storages, validator, idGenerator, cfg.Storage.Files, logger),
	}
}
