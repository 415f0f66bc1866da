package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	sectionLinkPattern    = regexp.MustCompile(`href="/books\?section_id=(\d+)"`)
	attachmentLinkPattern = regexp.MustCompile(`href="(/uploads/[^"]+)"`)
)

// newLibraryServer runs the full stack against a fresh SQLite database.
func newLibraryServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()
	log := logger.Nop()

	cfg := config.StructuredConfig{
		App: config.App{
			SessionSignKey:    "library-test-key",
			SessionIssuer:     config.DefaultSessionIssuer,
			SessionDuration:   time.Hour,
			SessionCookieName: config.DefaultSessionCookieName,
			PasswordHashCost:  bcrypt.MinCost,
			Librarian: config.Librarian{
				Name:     config.DefaultLibrarianName,
				Email:    config.DefaultLibrarianEmail,
				Password: config.DefaultLibrarianPassword,
			},
		},
		Storage: config.Storage{
			DB:    config.DB{DSN: filepath.Join(dir, "library.sqlite3")},
			Files: config.Files{UploadDir: filepath.Join(dir, "uploads"), MaxUploadSize: 1 << 20},
		},
	}

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	storages, err := store.NewStorages(db, cfg.Storage, log)
	require.NoError(t, err)

	services := service.NewServices(storages, cfg, log)
	created, err := services.AuthService.EnsureLibrarian(ctx)
	require.NoError(t, err)
	require.True(t, created)

	h, err := NewHandler(services, cfg, log)
	require.NoError(t, err)

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(srv *httptest.Server) *utils.HTTPClient {
	return utils.NewHTTPClient(srv.URL, 5*time.Second).WithoutRedirects()
}

func submit(t *testing.T, c *utils.HTTPClient, path string, form map[string]string) *resty.Response {
	t.Helper()
	resp, err := c.R().SetFormData(form).Post(path)
	require.NoError(t, err)
	return resp
}

func visit(t *testing.T, c *utils.HTTPClient, path string) *resty.Response {
	t.Helper()
	resp, err := c.R().Get(path)
	require.NoError(t, err)
	return resp
}

func assertSeeOther(t *testing.T, resp *resty.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode(), resp.String())
	assert.Equal(t, location, resp.Header().Get("Location"))
}

func TestLibrary_CatalogScenario(t *testing.T) {
	srv := newLibraryServer(t)
	pdf := []byte("%PDF-1.4\n1984 by George Orwell\n%%EOF\n")

	alice := newBrowser(srv)
	assertSeeOther(t, submit(t, alice, "/register", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "pw1",
	}), "/login")
	assertSeeOther(t, submit(t, alice, "/login", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}), "/")

	// members cannot change the catalog
	assertSeeOther(t, submit(t, alice, "/sections/create", map[string]string{"name": "Fiction"}), "/")
	assert.Contains(t, visit(t, alice, "/").String(), "Only librarians can do that.")
	assert.Contains(t, visit(t, alice, "/sections").String(), "No sections found.")

	librarian := newBrowser(srv)
	assertSeeOther(t, submit(t, librarian, "/login", map[string]string{
		"email": config.DefaultLibrarianEmail, "password": config.DefaultLibrarianPassword,
	}), "/")
	assertSeeOther(t, submit(t, librarian, "/sections/create", map[string]string{
		"name": "Fiction", "description": "Novels and stories",
	}), "/sections")

	match := sectionLinkPattern.FindStringSubmatch(visit(t, librarian, "/sections").String())
	require.Len(t, match, 2, "section link not found")
	sectionID := match[1]

	resp, err := librarian.R().
		SetMultipartFormData(map[string]string{
			"name":       "1984",
			"author":     "Orwell",
			"content":    "Big Brother is watching.",
			"section_id": sectionID,
		}).
		SetFileReader("file", "orwell.pdf", bytes.NewReader(pdf)).
		Post("/books/create")
	require.NoError(t, err)
	assertSeeOther(t, resp, "/books")

	// a case-insensitive author filter finds exactly the new book
	page := visit(t, alice, "/books?author=orwell")
	require.Equal(t, http.StatusOK, page.StatusCode())
	assert.Contains(t, page.String(), "<td>1984</td>")
	assert.Contains(t, page.String(), "<td>Orwell</td>")
	assert.Contains(t, page.String(), "<td>Fiction</td>")

	assert.Contains(t, visit(t, alice, "/books?author=tolstoy").String(), "No books found.")
	assert.Contains(t, visit(t, alice, "/books?search=84&section_id="+sectionID).String(), "<td>1984</td>")

	link := attachmentLinkPattern.FindStringSubmatch(page.String())
	require.Len(t, link, 2, "attachment link not found")
	download := visit(t, alice, link[1])
	assert.Equal(t, http.StatusOK, download.StatusCode())
	assert.Equal(t, "application/pdf", download.Header().Get("Content-Type"))
	assert.Equal(t, pdf, download.Body())

	// deleting the section takes its books and their files with it
	assertSeeOther(t, submit(t, librarian, "/sections/"+sectionID+"/delete", nil), "/sections")
	assert.Contains(t, visit(t, alice, "/books").String(), "No books found.")
	assert.Equal(t, http.StatusNotFound, visit(t, alice, link[1]).StatusCode())
}

func TestLibrary_SessionLifecycle(t *testing.T) {
	srv := newLibraryServer(t)
	browser := newBrowser(srv)

	assertSeeOther(t, visit(t, browser, "/books"), "/login")

	assertSeeOther(t, submit(t, browser, "/register", map[string]string{
		"name": "Bob", "email": "bob@x.com", "password": "pw2",
	}), "/login")
	assertSeeOther(t, submit(t, browser, "/register", map[string]string{
		"name": "Bob again", "email": "bob@x.com", "password": "pw3",
	}), "/register")
	assert.Contains(t, visit(t, browser, "/register").String(), "User already exists!")

	assertSeeOther(t, submit(t, browser, "/login", map[string]string{
		"email": "bob@x.com", "password": "wrong",
	}), "/login")
	assert.Contains(t, visit(t, browser, "/login").String(), "Invalid email or password")

	assertSeeOther(t, submit(t, browser, "/login", map[string]string{
		"email": "bob@x.com", "password": "pw2",
	}), "/")
	assert.Equal(t, http.StatusOK, visit(t, browser, "/books").StatusCode())

	assertSeeOther(t, visit(t, browser, "/logout"), "/login")
	assertSeeOther(t, visit(t, browser, "/books"), "/login")
}
