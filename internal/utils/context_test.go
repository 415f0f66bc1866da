// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-library-keeper/models"
)

func TestContextKeyString(t *testing.T) {
	if IdentityCtxKey.String() != "identity" {
		t.Errorf("expected 'identity', got '%s'", IdentityCtxKey.String())
	}
}

func TestGetIdentityFromContext_Success(t *testing.T) {
	identity := &models.Identity{User: models.User{UserID: 42, Librarian: true}, SessionID: "s-1"}
	ctx := WithIdentity(context.Background(), identity)

	got := GetIdentityFromContext(ctx)
	if got != identity {
		t.Fatalf("expected stored identity, got %+v", got)
	}
}

func TestGetIdentityFromContext_Missing(t *testing.T) {
	if got := GetIdentityFromContext(context.Background()); got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}
}

func TestGetIdentityFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), IdentityCtxKey, "not an identity")

	if got := GetIdentityFromContext(ctx); got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}
}

func TestWithIdentity_ExplicitAnonymous(t *testing.T) {
	ctx := WithIdentity(context.Background(), nil)

	if got := GetIdentityFromContext(ctx); got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}
}
