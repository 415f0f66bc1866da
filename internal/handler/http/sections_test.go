package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/validators"
	"github.com/MKhiriev/go-library-keeper/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestListSections(t *testing.T) {
	sections := []models.Section{
		{SectionID: 1, Name: "Fiction", Description: "Novels"},
		{SectionID: 2, Name: "Science fiction"},
	}

	t.Run("member sees sections without controls", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().ListSections(gomock.Any(), testMember, "fic").Return(sections, nil)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections?search=fic", nil), testMember))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Fiction")
		assert.Contains(t, body, "Science fiction")
		assert.Contains(t, body, `value="fic"`)
		assert.Contains(t, body, `href="/books?section_id=1"`)
		assert.NotContains(t, body, "/sections/1/delete")
	})

	t.Run("librarian sees edit and delete controls", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().ListSections(gomock.Any(), testLibrarian, "").Return(sections, nil)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections", nil), testLibrarian))

		body := rec.Body.String()
		assert.Contains(t, body, `href="/sections/2/edit"`)
		assert.Contains(t, body, `action="/sections/2/delete"`)
	})

	t.Run("empty listing", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().ListSections(gomock.Any(), testMember, "").Return(nil, nil)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections", nil), testMember))

		assert.Contains(t, rec.Body.String(), "No sections found.")
	})
}

func TestCreateSection(t *testing.T) {
	form := url.Values{"name": {"Fiction"}, "description": {"Novels"}}
	input := models.SectionInput{Name: "Fiction", Description: "Novels"}

	t.Run("librarian creates a section", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().CreateSection(gomock.Any(), testLibrarian, input).
			Return(models.Section{SectionID: 1, Name: "Fiction"}, nil)

		rec := env.serve(env.signIn(newFormRequest(http.MethodPost, "/sections/create", form), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, notice{Kind: "success", Text: "Section created."}, noticeOf(t, rec))
	})

	t.Run("member is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(env.signIn(newFormRequest(http.MethodPost, "/sections/create", form), testMember))

		assertRedirect(t, rec, "/")
		assert.Equal(t, notice{Kind: "error", Text: "Only librarians can do that."}, noticeOf(t, rec))
	})

	t.Run("empty name goes back to the form", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().CreateSection(gomock.Any(), testLibrarian, models.SectionInput{}).
			Return(models.Section{}, fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrEmptyName))

		rec := env.serve(env.signIn(newFormRequest(http.MethodPost, "/sections/create", url.Values{}), testLibrarian))

		assertRedirect(t, rec, "/sections/create")
		assert.Equal(t, notice{Kind: "error", Text: "Name is required."}, noticeOf(t, rec))
	})
}

func TestCreateSectionPage(t *testing.T) {
	t.Run("librarian", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections/create", nil), testLibrarian))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/sections/create"`)
	})

	t.Run("member", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections/create", nil), testMember))

		assertRedirect(t, rec, "/")
	})
}

func TestEditSectionPage(t *testing.T) {
	t.Run("prefilled form", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().GetSection(gomock.Any(), testLibrarian, int64(4)).
			Return(models.Section{SectionID: 4, Name: "Poetry", Description: "Verse"}, nil)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections/4/edit", nil), testLibrarian))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `action="/sections/4/edit"`)
		assert.Contains(t, body, `value="Poetry"`)
	})

	t.Run("missing section", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().GetSection(gomock.Any(), testLibrarian, int64(99)).
			Return(models.Section{}, fmt.Errorf("%w: %w", service.ErrNotFound, store.ErrSectionNotFound))

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections/99/edit", nil), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, notice{Kind: "error", Text: "Section not found."}, noticeOf(t, rec))
	})

	t.Run("id out of range", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodGet, "/sections/99999999999999999999/edit", nil), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, "Section not found.", noticeOf(t, rec).Text)
	})
}

func TestEditSection(t *testing.T) {
	form := url.Values{"name": {"Classics"}, "description": {""}}

	t.Run("saved", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().EditSection(gomock.Any(), testLibrarian, int64(4), models.SectionInput{Name: "Classics"}).
			Return(models.Section{SectionID: 4, Name: "Classics"}, nil)

		rec := env.serve(env.signIn(newFormRequest(http.MethodPost, "/sections/4/edit", form), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, "Section updated.", noticeOf(t, rec).Text)
	})

	t.Run("invalid input returns to the edit form", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().EditSection(gomock.Any(), testLibrarian, int64(4), gomock.Any()).
			Return(models.Section{}, fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrNameTooLong))

		rec := env.serve(env.signIn(newFormRequest(http.MethodPost, "/sections/4/edit", form), testLibrarian))

		assertRedirect(t, rec, "/sections/4/edit")
		assert.Equal(t, "Name is too long.", noticeOf(t, rec).Text)
	})
}

func TestDeleteSection(t *testing.T) {
	t.Run("librarian deletes", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().DeleteSection(gomock.Any(), testLibrarian, int64(1)).Return(nil)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodPost, "/sections/1/delete", nil), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, "Section and all of its books deleted.", noticeOf(t, rec).Text)
	})

	t.Run("missing section", func(t *testing.T) {
		env := newTestEnv(t)
		env.sections.EXPECT().DeleteSection(gomock.Any(), testLibrarian, int64(1)).
			Return(fmt.Errorf("%w: %w", service.ErrNotFound, store.ErrSectionNotFound))

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodPost, "/sections/1/delete", nil), testLibrarian))

		assertRedirect(t, rec, "/sections")
		assert.Equal(t, notice{Kind: "error", Text: "Section not found."}, noticeOf(t, rec))
	})

	t.Run("member is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(env.signIn(httptest.NewRequest(http.MethodPost, "/sections/1/delete", nil), testMember))

		assertRedirect(t, rec, "/")
	})
}
