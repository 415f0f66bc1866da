package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidTokenParams is returned when a session token cannot be generated
// because a required parameter is empty.
var ErrInvalidTokenParams = errors.New("invalid params for generating session token")

// GenerateSessionToken creates a signed HMAC-SHA256 JWT referencing the
// server-side session sessionID owned by userID.
//
// Claims:
//   - iss: issuer
//   - sub: userID in base 10
//   - jti: sessionID
//   - iat: now
//   - exp: expiresAt
func GenerateSessionToken(issuer string, userID int64, sessionID string, expiresAt time.Time, signKey string) (models.SessionToken, error) {
	if issuer == "" || sessionID == "" || signKey == "" || expiresAt.IsZero() {
		return models.SessionToken{}, ErrInvalidTokenParams
	}

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.SessionToken{
		Token:            token,
		RegisteredClaims: claims,
		SignedString:     tokenString,
		UserID:           userID,
		SessionID:        sessionID,
	}, nil
}

// ValidateAndParseSessionToken verifies tokenString and extracts the user and
// session identifiers.
//
// Validation covers the HS256 signature, the issuer, the expiry and the
// presence of both "sub" and "jti".
func ValidateAndParseSessionToken(tokenString, signKey, issuer string) (models.SessionToken, error) {
	parsed := &models.SessionToken{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := parsed.GetUserID()
	if err != nil {
		return models.SessionToken{}, err
	}
	if parsed.ID == "" {
		return models.SessionToken{}, errors.New("session token has no session id")
	}

	parsed.Token = token
	parsed.SignedString = tokenString
	parsed.UserID = userID
	parsed.SessionID = parsed.ID

	return *parsed, nil
}
