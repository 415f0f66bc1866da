// Package utils provides small helpers shared by the transport, service and
// storage layers: typed context keys, session token signing, identifier
// generation and an HTTP client for talking to a running server.
package utils

import (
	"context"

	"github.com/MKhiriev/go-library-keeper/models"
)

// contextKey is a private type for context keys.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the context key holding the *models.Identity resolved
// from the session cookie of the current request.
var IdentityCtxKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying identity. A nil identity is
// stored as well, marking the request as explicitly anonymous.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}

// GetIdentityFromContext returns the identity stored by WithIdentity.
// The result is nil for anonymous requests.
func GetIdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(IdentityCtxKey).(*models.Identity)
	return identity
}
