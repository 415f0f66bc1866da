package handler

import (
	"testing"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewHandlers_HTTP verifies that a configured HTTP address yields an
// initialised HTTP handler.
func TestNewHandlers_HTTP(t *testing.T) {
	cfg := config.StructuredConfig{
		Server: config.Server{HTTPAddress: ":8080"},
	}

	h, err := NewHandlers(&service.Services{}, cfg, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP, "expected HTTP handler to be initialised")
}

// TestNewHandlers_NoAddress verifies that an empty HTTP address is rejected.
func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.StructuredConfig{}, logger.Nop())

	assert.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}
