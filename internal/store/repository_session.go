package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/models"
)

// sessionRepository is the SQL implementation of [SessionRepository] over
// the "sessions" table. Timestamps are written in UTC.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository].
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateSessionQuery(r.db.builder, session)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").
			Int64("user_id", session.UserID).
			Msg("error inserting session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) FindSession(ctx context.Context, sessionID string) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindSessionQuery(r.db.builder, sessionID)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FindSession").Msg("error building query")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var session models.Session
	var revokedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&session.SessionID, &session.UserID, &session.CreatedAt, &session.ExpiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FindSession").Msg("error finding session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if revokedAt.Valid {
		session.RevokedAt = &revokedAt.Time
	}

	return session, nil
}

// RevokeSession sets revoked_at on an active session. Already revoked and
// unknown sessions are left untouched without error.
func (r *sessionRepository) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRevokeSessionQuery(r.db.builder, sessionID, revokedAt.UTC())
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.RevokeSession").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.RevokeSession").Msg("error revoking session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteStaleSessionsQuery(r.db.builder, now.UTC())
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteStaleSessions").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteStaleSessions").Msg("error deleting stale sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return deleted, nil
}
