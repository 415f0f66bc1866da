package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour)

	token, err := GenerateSessionToken("library", 123, "session-1", expires, "secret-key")
	require.NoError(t, err)

	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, token.SignedString, token.String())
	assert.Equal(t, int64(123), token.UserID)
	assert.Equal(t, "session-1", token.SessionID)
	assert.Equal(t, "123", token.Subject)
	assert.Equal(t, "session-1", token.ID)
	assert.Equal(t, expires.Unix(), token.Expires().Unix())
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	expires := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		issuer    string
		sessionID string
		expires   time.Time
		key       string
	}{
		{"empty issuer", "", "sid", expires, "key"},
		{"empty session id", "iss", "", expires, "key"},
		{"zero expiry", "iss", "sid", time.Time{}, "key"},
		{"empty key", "iss", "sid", expires, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSessionToken(tt.issuer, 1, tt.sessionID, tt.expires, tt.key)
			assert.ErrorIs(t, err, ErrInvalidTokenParams)
		})
	}
}

func TestValidateAndParseSessionToken_RoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("library", 7, "sid-7", time.Now().Add(time.Hour), "key")
	require.NoError(t, err)

	parsed, err := ValidateAndParseSessionToken(token.SignedString, "key", "library")
	require.NoError(t, err)
	assert.Equal(t, int64(7), parsed.UserID)
	assert.Equal(t, "sid-7", parsed.SessionID)
	assert.Equal(t, token.SignedString, parsed.SignedString)
}

func TestValidateAndParseSessionToken_Rejects(t *testing.T) {
	valid, err := GenerateSessionToken("library", 7, "sid-7", time.Now().Add(time.Hour), "key")
	require.NoError(t, err)
	expired, err := GenerateSessionToken("library", 7, "sid-7", time.Now().Add(-time.Minute), "key")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer: "library", Subject: "7", ID: "sid-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSessionID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: "library", Subject: "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("key"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: "library", Subject: "seven", ID: "sid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("key"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid.SignedString, "other", "library"},
		{"wrong issuer", valid.SignedString, "key", "someone-else"},
		{"expired", expired.SignedString, "key", "library"},
		{"none algorithm", noneAlg, "key", "library"},
		{"missing session id", noSessionID, "key", "library"},
		{"non-numeric subject", badSubject, "key", "library"},
		{"garbage", "not.a.token", "key", "library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParseSessionToken(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseSessionToken_ExpiredIsJWTError(t *testing.T) {
	expired, err := GenerateSessionToken("library", 1, "sid", time.Now().Add(-time.Minute), "key")
	require.NoError(t, err)

	_, err = ValidateAndParseSessionToken(expired.SignedString, "key", "library")
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}
