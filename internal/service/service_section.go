package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
)

// sectionService is the concrete implementation of SectionService.
type sectionService struct {
	sectionRepository store.SectionRepository
	attachmentStorage store.AttachmentStorage
	validator         validators.Validator
	logger            *logger.Logger
}

// NewSectionService constructs a SectionService over storages.
func NewSectionService(storages *store.Storages, validator validators.Validator, logger *logger.Logger) SectionService {
	return &sectionService{
		sectionRepository: storages.SectionRepository,
		attachmentStorage: storages.AttachmentStorage,
		validator:         validator,
		logger:            logger,
	}
}

func (s *sectionService) CreateSection(ctx context.Context, identity *models.Identity, input models.SectionInput) (models.Section, error) {
	if err := RequireLibrarian(identity); err != nil {
		return models.Section{}, err
	}

	input = normalizeSectionInput(input)
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Section{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	section, err := s.sectionRepository.CreateSection(ctx, models.Section{Name: input.Name, Description: input.Description})
	if err != nil {
		return models.Section{}, fmt.Errorf("error creating section: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("section_id", section.SectionID).Msg("section created")
	return section, nil
}

func (s *sectionService) GetSection(ctx context.Context, identity *models.Identity, sectionID int64) (models.Section, error) {
	if err := RequireAuthenticated(identity); err != nil {
		return models.Section{}, err
	}

	section, err := s.sectionRepository.FindSectionByID(ctx, sectionID)
	if err != nil {
		return models.Section{}, notFound(err, store.ErrSectionNotFound, "error finding section")
	}

	return section, nil
}

// ListSections returns the sections whose name contains search, ignoring
// case, ordered by id.
func (s *sectionService) ListSections(ctx context.Context, identity *models.Identity, search string) ([]models.Section, error) {
	if err := RequireAuthenticated(identity); err != nil {
		return nil, err
	}

	sections, err := s.sectionRepository.ListSections(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}

	return sections, nil
}

func (s *sectionService) EditSection(ctx context.Context, identity *models.Identity, sectionID int64, input models.SectionInput) (models.Section, error) {
	if err := RequireLibrarian(identity); err != nil {
		return models.Section{}, err
	}

	if _, err := s.sectionRepository.FindSectionByID(ctx, sectionID); err != nil {
		return models.Section{}, notFound(err, store.ErrSectionNotFound, "error finding section")
	}

	input = normalizeSectionInput(input)
	if err := s.validator.Validate(ctx, input); err != nil {
		return models.Section{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	section, err := s.sectionRepository.UpdateSection(ctx, models.Section{
		SectionID:   sectionID,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return models.Section{}, notFound(err, store.ErrSectionNotFound, "error updating section")
	}

	return section, nil
}

// DeleteSection deletes the section with all of its books, then removes the
// attachment files those books held.
func (s *sectionService) DeleteSection(ctx context.Context, identity *models.Identity, sectionID int64) error {
	if err := RequireLibrarian(identity); err != nil {
		return err
	}

	keys, err := s.sectionRepository.DeleteSection(ctx, sectionID)
	if err != nil {
		return notFound(err, store.ErrSectionNotFound, "error deleting section")
	}

	for _, key := range keys {
		removeAttachment(ctx, s.attachmentStorage, key)
	}

	return nil
}

func normalizeSectionInput(input models.SectionInput) models.SectionInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	return input
}

// notFound wraps err with ErrNotFound when it matches target, and with msg
// otherwise.
func notFound(err, target error, msg string) error {
	if errors.Is(err, target) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
