package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/mock"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testCookieName = "library_session"

var (
	testMember = &models.Identity{
		User:      models.User{UserID: 2, Name: "Alice", Email: "a@x.com"},
		SessionID: "member-session",
	}
	testLibrarian = &models.Identity{
		User:      models.User{UserID: 1, Name: "librarian", Email: "librarian@library.com", Librarian: true},
		SessionID: "librarian-session",
	}
)

// testEnv is a Handler wired to gomock services.
type testEnv struct {
	handler  *Handler
	router   http.Handler
	auth     *mock.MockAuthService
	sections *mock.MockSectionService
	books    *mock.MockBookService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &testEnv{
		auth:     mock.NewMockAuthService(ctrl),
		sections: mock.NewMockSectionService(ctrl),
		books:    mock.NewMockBookService(ctrl),
	}

	cfg := config.StructuredConfig{
		App:     config.App{SessionCookieName: testCookieName},
		Storage: config.Storage{Files: config.Files{MaxUploadSize: 1 << 10}},
	}
	h, err := NewHandler(&service.Services{
		AuthService:    env.auth,
		SectionService: env.sections,
		BookService:    env.books,
	}, cfg, logger.Nop())
	require.NoError(t, err)

	env.handler = h
	env.router = h.Init()
	return env
}

// signIn attaches a session cookie to r that resolves to identity.
func (e *testEnv) signIn(r *http.Request, identity *models.Identity) *http.Request {
	token := "token-" + identity.SessionID
	e.auth.EXPECT().ResolveIdentity(gomock.Any(), token).Return(identity, nil).AnyTimes()
	r.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	return r
}

func (e *testEnv) serve(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func newFormRequest(method, target string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// responseCookie returns the cookie named name set by the response.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// noticeOf decodes the notice cookie set by the response.
func noticeOf(t *testing.T, rec *httptest.ResponseRecorder) notice {
	t.Helper()
	cookie := responseCookie(rec, noticeCookieName)
	require.NotNil(t, cookie, "expected a notice cookie")

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	require.NoError(t, err)

	var n notice
	require.NoError(t, json.Unmarshal(raw, &n))
	return n
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_ParsesEveryPage(t *testing.T) {
	h, err := NewHandler(&service.Services{}, config.StructuredConfig{}, logger.Nop())

	require.NoError(t, err)
	for _, name := range pageNames {
		assert.Contains(t, h.pages, name)
	}
}

func TestNewHandler_StoresSettings(t *testing.T) {
	cfg := config.StructuredConfig{
		App:     config.App{SessionCookieName: "sid", SecureCookies: true},
		Storage: config.Storage{Files: config.Files{MaxUploadSize: 42}},
		Server:  config.Server{RequestTimeout: config.DefaultRequestTimeout},
	}

	h, err := NewHandler(&service.Services{}, cfg, logger.Nop())

	require.NoError(t, err)
	assert.Equal(t, "sid", h.cookieName)
	assert.True(t, h.secureCookies)
	assert.Equal(t, int64(42), h.maxUploadSize)
	assert.Equal(t, config.DefaultRequestTimeout, h.requestTimeout)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_PublicPages(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/login", "/register"} {
		t.Run(path, func(t *testing.T) {
			rec := env.serve(httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestInit_ProtectedPagesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/sections"},
		{http.MethodGet, "/sections/create"},
		{http.MethodPost, "/sections/create"},
		{http.MethodGet, "/sections/1/edit"},
		{http.MethodPost, "/sections/1/delete"},
		{http.MethodGet, "/books"},
		{http.MethodPost, "/books/create"},
		{http.MethodPost, "/books/7/edit"},
		{http.MethodPost, "/books/7/delete"},
		{http.MethodGet, "/uploads/abc.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.serve(httptest.NewRequest(tt.method, tt.path, nil))

			assertRedirect(t, rec, "/login")
			assert.Equal(t, notice{Kind: "error", Text: "Please log in to access this page."}, noticeOf(t, rec))
		})
	}
}

func TestInit_UnknownRoutesAnswerNotFound(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown path", http.MethodGet, "/nowhere"},
		{"non numeric id", http.MethodGet, "/books/abc/edit"},
		{"delete over GET", http.MethodGet, "/books/1/delete"},
		{"unsupported method", http.MethodPut, "/sections"},
		{"post to home", http.MethodPost, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "Page not found")
		})
	}
}

func TestInit_SetsTraceIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}
