package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/models"
)

// sectionRepository is the SQL implementation of [SectionRepository] over
// the "sections" table.
type sectionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSectionRepository constructs a [SectionRepository].
func NewSectionRepository(db *DB, logger *logger.Logger) SectionRepository {
	logger.Debug().Msg("creating section repository")
	return &sectionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sectionRepository) CreateSection(ctx context.Context, section models.Section) (models.Section, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateSectionQuery(r.db.builder, section)
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.CreateSection").Msg("error building query")
		return models.Section{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanSection(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.CreateSection").Msg("error inserting section")
		return models.Section{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *sectionRepository) FindSectionByID(ctx context.Context, sectionID int64) (models.Section, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindSectionQuery(r.db.builder, sectionID)
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.FindSectionByID").Msg("error building query")
		return models.Section{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	section, err := scanSection(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Section{}, ErrSectionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.FindSectionByID").Int64("section_id", sectionID).Msg("error finding section")
		return models.Section{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return section, nil
}

func (r *sectionRepository) ListSections(ctx context.Context, search string) ([]models.Section, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSectionsQuery(r.db.builder, r.db.lowerFunc, search)
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.ListSections").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.ListSections").Msg("error listing sections")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sections := make([]models.Section, 0, 16)
	for rows.Next() {
		var section models.Section
		if err := rows.Scan(&section.SectionID, &section.Name, &section.Description); err != nil {
			log.Err(err).Str("func", "*sectionRepository.ListSections").Msg("error scanning section row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*sectionRepository.ListSections").Msg("error iterating section rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return sections, nil
}

func (r *sectionRepository) UpdateSection(ctx context.Context, section models.Section) (models.Section, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateSectionQuery(r.db.builder, section)
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.UpdateSection").Msg("error building query")
		return models.Section{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanSection(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Section{}, ErrSectionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*sectionRepository.UpdateSection").Int64("section_id", section.SectionID).Msg("error updating section")
		return models.Section{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

// DeleteSection deletes the books of the section and then the section itself
// inside one transaction. The books' attachment keys are collected first so
// the caller can remove the files once the rows are gone.
func (r *sectionRepository) DeleteSection(ctx context.Context, sectionID int64) ([]string, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "*sectionRepository.DeleteSection").
		Int64("section_id", sectionID).
		Logger()

	var keys []string
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		keys, err = r.attachmentKeys(ctx, tx, sectionID)
		if err != nil {
			return err
		}

		query, args, err := buildDeleteSectionBooksQuery(r.db.builder, sectionID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		query, args, err = buildDeleteSectionQuery(r.db.builder, sectionID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrSectionNotFound
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSectionNotFound) {
			log.Err(err).Msg("error deleting section")
		}
		return nil, err
	}

	log.Info().Int("attachments", len(keys)).Msg("section deleted with its books")
	return keys, nil
}

func (r *sectionRepository) attachmentKeys(ctx context.Context, tx *sql.Tx, sectionID int64) ([]string, error) {
	query, args, err := buildSectionAttachmentKeysQuery(r.db.builder, sectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return keys, nil
}

func scanSection(row *sql.Row) (models.Section, error) {
	var section models.Section
	err := row.Scan(&section.SectionID, &section.Name, &section.Description)
	return section, err
}
