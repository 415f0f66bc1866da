package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-library-keeper/internal/app"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/go-chi/chi/v5"
)

type sectionsPage struct {
	Search   string
	Sections []models.Section
}

type sectionFormPage struct {
	Action  string
	Section models.Section
}

func (h *Handler) listSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	search := r.URL.Query().Get("search")

	sections, err := h.services.SectionService.ListSections(ctx, identity, search)
	if err != nil {
		h.redirectWithError(w, r, err, "/", "/")
		return
	}

	h.render(w, r, http.StatusOK, pageSections, "Sections", sectionsPage{Search: search, Sections: sections})
}

func (h *Handler) createSectionPage(w http.ResponseWriter, r *http.Request) {
	if err := service.RequireLibrarian(utils.GetIdentityFromContext(r.Context())); err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	h.render(w, r, http.StatusOK, pageSectionForm, "Create section", sectionFormPage{Action: "/sections/create"})
}

func (h *Handler) createSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/sections/create", "/sections")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.redirectWithError(w, r, formError(errInvalidForm), "/sections/create", "/sections")
		return
	}

	_, err := h.services.SectionService.CreateSection(ctx, identity, sectionInputFromForm(r))
	if err != nil {
		h.redirectWithError(w, r, err, "/sections/create", "/sections")
		return
	}

	h.redirectWithNotice(w, r, "/sections", app.NoticeSuccess, app.MsgSectionCreated)
}

func (h *Handler) editSectionPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	sectionID, err := pathID(r, store.ErrSectionNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	section, err := h.services.SectionService.GetSection(ctx, identity, sectionID)
	if err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	h.render(w, r, http.StatusOK, pageSectionForm, "Edit section", sectionFormPage{
		Action:  fmt.Sprintf("/sections/%d/edit", sectionID),
		Section: section,
	})
}

func (h *Handler) editSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	sectionID, err := pathID(r, store.ErrSectionNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}
	formURL := fmt.Sprintf("/sections/%d/edit", sectionID)

	if err = r.ParseForm(); err != nil {
		h.redirectWithError(w, r, formError(errInvalidForm), formURL, "/sections")
		return
	}

	if _, err = h.services.SectionService.EditSection(ctx, identity, sectionID, sectionInputFromForm(r)); err != nil {
		h.redirectWithError(w, r, err, formURL, "/sections")
		return
	}

	h.redirectWithNotice(w, r, "/sections", app.NoticeSuccess, app.MsgSectionUpdated)
}

// deleteSection removes the section and every book in it.
func (h *Handler) deleteSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := utils.GetIdentityFromContext(ctx)
	if err := service.RequireLibrarian(identity); err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	sectionID, err := pathID(r, store.ErrSectionNotFound)
	if err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	if err = h.services.SectionService.DeleteSection(ctx, identity, sectionID); err != nil {
		h.redirectWithError(w, r, err, "/sections", "/sections")
		return
	}

	h.redirectWithNotice(w, r, "/sections", app.NoticeSuccess, app.MsgSectionDeleted)
}

func sectionInputFromForm(r *http.Request) models.SectionInput {
	return models.SectionInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

// pathID parses the {id} URL parameter. The route pattern only admits
// digits, so a failure here means the value overflows int64 and cannot name
// any row; it is reported as missing.
func pathID(r *http.Request, missing error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", service.ErrNotFound, missing)
	}
	return id, nil
}
