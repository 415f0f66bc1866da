package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once per service and compared against when the
// email is unknown, so both failed-login paths run one bcrypt comparison.
const dummyPassword = "library-keeper-dummy-password"

// authService is the concrete implementation of AuthService.
// It handles registration, bcrypt credential checks and the server-side
// session lifecycle behind the session cookie.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sessionRepository persists login sessions referenced by session tokens.
	sessionRepository store.SessionRepository

	validator   validators.Validator
	idGenerator utils.IDGenerator

	// signKey is the HMAC secret used to sign and verify session tokens.
	signKey string

	// issuer is the "iss" claim embedded in every session token.
	// Tokens whose issuer does not match this value are rejected.
	issuer string

	// sessionDuration controls how long a new session stays valid.
	sessionDuration time.Duration

	// hashCost is the bcrypt cost used for new password hashes.
	hashCost int

	// librarian holds the bootstrap librarian credentials.
	librarian config.Librarian

	dummyHash []byte
	now       func() time.Time

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService over the user and session
// repositories of storages, populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	storages *store.Storages,
	validator validators.Validator,
	idGenerator utils.IDGenerator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cfg.PasswordHashCost)
	if err != nil {
		logger.Err(err).Str("func", "NewAuthService").Msg("error hashing dummy password")
	}

	return &authService{
		userRepository:    storages.UserRepository,
		sessionRepository: storages.SessionRepository,
		validator:         validator,
		idGenerator:       idGenerator,
		signKey:           cfg.SessionSignKey,
		issuer:            cfg.SessionIssuer,
		sessionDuration:   cfg.SessionDuration,
		hashCost:          cfg.PasswordHashCost,
		librarian:         cfg.Librarian,
		dummyHash:         dummyHash,
		now:               time.Now,
		logger:            logger,
	}
}

// RegisterUser creates a member account.
//
// Name and email are trimmed of surrounding whitespace, the password is kept
// as submitted. Returns the persisted user or:
//   - ErrValidation if a field is missing or malformed.
//   - ErrDuplicateEmail if the email is already registered.
func (a *authService) RegisterUser(ctx context.Context, registration models.Registration) (models.User, error) {
	log := logger.FromContext(ctx)

	registration.Name = strings.TrimSpace(registration.Name)
	registration.Email = strings.TrimSpace(registration.Email)

	if err := a.validator.Validate(ctx, registration); err != nil {
		log.Debug().Err(err).Str("email", registration.Email).Msg("invalid registration")
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), a.hashCost)
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return models.User{}, fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	if err != nil {
		log.Err(err).Str("email", registration.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Msg("user registered")
	return user, nil
}

// Authenticate returns the account matching email when password is correct.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (a *authService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Authenticate").Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Int64("user_id", user.UserID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// CreateSession persists a new session for user and returns the signed
// token referencing it.
func (a *authService) CreateSession(ctx context.Context, user models.User) (models.SessionToken, error) {
	log := logger.FromContext(ctx)

	now := a.now()
	session := models.Session{
		SessionID: a.idGenerator.Generate(),
		UserID:    user.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionDuration),
	}

	token, err := utils.GenerateSessionToken(a.issuer, user.UserID, session.SessionID, session.ExpiresAt, a.signKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.CreateSession").Msg("error generating session token")
		return models.SessionToken{}, fmt.Errorf("error generating session token: %w", err)
	}

	if err = a.sessionRepository.CreateSession(ctx, session); err != nil {
		return models.SessionToken{}, fmt.Errorf("error creating session: %w", err)
	}

	return token, nil
}

// ResolveIdentity validates token and loads the session and user it
// references. Any failure is reported as ErrUnauthenticated.
func (a *authService) ResolveIdentity(ctx context.Context, token string) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return nil, ErrUnauthenticated
	}

	parsed, err := utils.ValidateAndParseSessionToken(token, a.signKey, a.issuer)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session token")
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	session, err := a.sessionRepository.FindSession(ctx, parsed.SessionID)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			log.Err(err).Str("func", "*authService.ResolveIdentity").Msg("error loading session")
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if session.UserID != parsed.UserID || !session.Active(a.now()) {
		return nil, ErrUnauthenticated
	}

	user, err := a.userRepository.FindUserByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Err(err).Str("func", "*authService.ResolveIdentity").Msg("error loading session user")
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return &models.Identity{User: user, SessionID: session.SessionID}, nil
}

// Logout revokes the session behind identity. Revoking an unknown or already
// revoked session succeeds.
func (a *authService) Logout(ctx context.Context, identity *models.Identity) error {
	if identity == nil {
		return nil
	}

	if err := a.sessionRepository.RevokeSession(ctx, identity.SessionID, a.now()); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("user_id", identity.UserID).Msg("user logged out")
	return nil
}

// EnsureLibrarian creates the configured librarian account unless some
// librarian already exists, and reports whether it created one.
func (a *authService) EnsureLibrarian(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.EnsureLibrarian").Logger()

	if a.librarian.Password == config.DefaultLibrarianPassword {
		log.Warn().Str("email", a.librarian.Email).
			Msg("bootstrap librarian password is the well-known default, change it with `libraryctl set-password`")
	}

	exists, err := a.userRepository.HasLibrarian(ctx)
	if err != nil {
		return false, fmt.Errorf("error looking up librarian: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.librarian.Password), a.hashCost)
	if err != nil {
		return false, fmt.Errorf("error hashing librarian password: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Name:         a.librarian.Name,
		Email:        a.librarian.Email,
		PasswordHash: string(hash),
		Librarian:    true,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return false, fmt.Errorf("%w: librarian email %q belongs to a member: %w", ErrDuplicateEmail, a.librarian.Email, err)
	}
	if err != nil {
		return false, fmt.Errorf("error creating librarian: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Str("email", user.Email).Msg("librarian created")
	return true, nil
}

// ChangePassword replaces the password hash of the account with email.
func (a *authService) ChangePassword(ctx context.Context, email, newPassword string) error {
	err := a.validator.Validate(ctx, models.Registration{Email: strings.TrimSpace(email), Password: newPassword},
		validators.FieldPassword)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.hashCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err = a.userRepository.UpdatePasswordHash(ctx, user.UserID, string(hash)); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("user_id", user.UserID).Msg("password changed")
	return nil
}

// PurgeStaleSessions deletes sessions that expired or were revoked.
func (a *authService) PurgeStaleSessions(ctx context.Context) (int64, error) {
	deleted, err := a.sessionRepository.DeleteStaleSessions(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("error purging sessions: %w", err)
	}
	return deleted, nil
}
