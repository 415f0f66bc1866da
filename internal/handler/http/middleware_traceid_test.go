package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeWithTraceID(h *Handler, traceID string) (*httptest.ResponseRecorder, *http.Request) {
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if traceID != "" {
		req.Header.Set(traceIDHeader, traceID)
	}

	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		requestTraceID string
		wantSame       bool
	}{
		{name: "trace ID from request header is reused", requestTraceID: "my-custom-trace-id", wantSame: true},
		{name: "no trace ID in request generates a UUID"},
		{name: "over-long trace ID is replaced", requestTraceID: strings.Repeat("x", maxTraceIDLength+1)},
		{name: "trace ID at the length limit is kept", requestTraceID: strings.Repeat("y", maxTraceIDLength), wantSame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{logger: logger.Nop()}

			rec, req := executeWithTraceID(h, tt.requestTraceID)

			require.NotNil(t, req, "next handler must be called")
			got := rec.Header().Get(traceIDHeader)
			if tt.wantSame {
				assert.Equal(t, tt.requestTraceID, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err, "expected a generated UUID, got %q", got)
		})
	}
}

func TestWithTraceID_LoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	_, req := executeWithTraceID(h, "trace-42")
	logger.FromRequest(req).Info().Msg("inside")

	assert.Contains(t, buf.String(), `"trace_id":"trace-42"`)
}

func TestWithTraceID_DoesNotChangeParentLogger(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	executeWithTraceID(h, "trace-1")
	h.logger.Info().Msg("outside")

	assert.NotContains(t, buf.String(), "trace_id")
}
