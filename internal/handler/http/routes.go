package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(h.withIdentity)

	// pages without authentication
	router.Group(func(r chi.Router) {
		r.Use(withGZip)
		r.Get("/", h.home)
		r.Get("/register", h.registerPage)
		r.Post("/register", h.register)
		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.requireAuthentication)

		r.Get("/logout", h.logout)
		// served uncompressed: PDFs are already compressed and support ranges
		r.Get("/uploads/{filename}", h.downloadAttachment)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)

			r.Get("/sections", h.listSections)
			r.Get("/sections/create", h.createSectionPage)
			r.Post("/sections/create", h.createSection)
			r.Get("/sections/{id:[0-9]+}/edit", h.editSectionPage)
			r.Post("/sections/{id:[0-9]+}/edit", h.editSection)
			r.Post("/sections/{id:[0-9]+}/delete", h.deleteSection)

			r.Get("/books", h.listBooks)
			r.Get("/books/create", h.createBookPage)
			r.Post("/books/create", h.createBook)
			r.Get("/books/{id:[0-9]+}/edit", h.editBookPage)
			r.Post("/books/{id:[0-9]+}/edit", h.editBook)
			r.Post("/books/{id:[0-9]+}/delete", h.deleteBook)
		})
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router, h.notFound))

	return router
}
