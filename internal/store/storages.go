package store

import (
	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
)

// Storages bundles every repository and the attachment storage so the
// service layer receives a single dependency.
type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository
	SectionRepository SectionRepository
	BookRepository    BookRepository
	AttachmentStorage AttachmentStorage
}

// NewStorages wires the SQL repositories on db and opens the attachment
// storage on the configured upload directory.
func NewStorages(db *DB, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	attachments, err := NewAttachmentFileStorage(cfg.Files.UploadDir, logger)
	if err != nil {
		logger.Err(err).Str("func", "store.NewStorages").Msg("error creating attachment storage")
		return nil, err
	}

	return &Storages{
		UserRepository:    NewUserRepository(db, logger),
		SessionRepository: NewSessionRepository(db, logger),
		SectionRepository: NewSectionRepository(db, logger),
		BookRepository:    NewBookRepository(db, logger),
		AttachmentStorage: attachments,
	}, nil
}
