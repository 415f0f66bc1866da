package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page template names. Each page is parsed together with the layout.
const (
	pageHome        = "home.html"
	pageRegister    = "register.html"
	pageLogin       = "login.html"
	pageSections    = "sections.html"
	pageSectionForm = "section_form.html"
	pageBooks       = "books.html"
	pageBookForm    = "book_form.html"
	pageNotFound    = "not_found.html"
)

var pageNames = []string{
	pageHome, pageRegister, pageLogin, pageSections,
	pageSectionForm, pageBooks, pageBookForm, pageNotFound,
}

type pages map[string]*template.Template

func parsePages() (pages, error) {
	parsed := make(pages, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", name, err)
		}
		parsed[name] = tmpl
	}
	return parsed, nil
}

// pageData is the value every page template is executed with.
type pageData struct {
	Title     string
	Identity  *models.Identity
	Librarian bool
	Notice    *notice
	Data      any
}

// render executes the named page into a buffer and writes it with status.
// A failed execution answers 500 without a partial page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	log := logger.FromRequest(r)

	tmpl, ok := h.pages[name]
	if !ok {
		log.Error().Str("page", name).Msg("unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity := utils.GetIdentityFromContext(r.Context())
	page := pageData{
		Title:     title,
		Identity:  identity,
		Librarian: identity.IsLibrarian(),
		Notice:    h.popNotice(w, r),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Err(err).Str("page", name).Msg("error rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Err(err).Str("page", name).Msg("error writing page")
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, pageNotFound, "Not found", nil)
}
