package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken is the signed value stored in the session cookie.
//
// The JWT "jti" claim carries the server-side session identifier and "sub"
// carries the user identifier, so a token is only honoured while the
// referenced session row stays active.
type SessionToken struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the parsed "sub" claim.
	UserID int64 `json:"-"`

	// SessionID is the "jti" claim.
	SessionID string `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (t *SessionToken) GetUserID() (int64, error) {
	userIDString, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// Expires returns the expiry time of the token, or the zero time if the
// token has no "exp" claim.
func (t *SessionToken) Expires() time.Time {
	if t.ExpiresAt == nil {
		return time.Time{}
	}
	return t.ExpiresAt.Time
}

// String returns the compact JWS serialization of the token.
func (t *SessionToken) String() string {
	return t.SignedString
}
