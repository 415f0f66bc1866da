package http

import (
	"net/http"

	"github.com/MKhiriev/go-library-keeper/internal/app"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/MKhiriev/go-library-keeper/models"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageHome, "Home", nil)
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageRegister, "Register", nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.redirectWithError(w, r, formError(errInvalidForm), "/register", "/register")
		return
	}

	registration := models.Registration{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	user, err := h.services.AuthService.RegisterUser(ctx, registration)
	if err != nil {
		h.redirectWithError(w, r, err, "/register", "/register")
		return
	}

	logger.FromRequest(r).Info().Int64("user_id", user.UserID).Msg("user registered")
	h.redirectWithNotice(w, r, "/login", app.NoticeSuccess, app.MsgRegistered)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageLogin, "Log in", nil)
}

// login authenticates the submitted credentials and starts a session.
// Unknown emails and wrong passwords get the same notice.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.redirectWithError(w, r, formError(errInvalidForm), "/login", "/login")
		return
	}

	user, err := h.services.AuthService.Authenticate(ctx, r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		h.redirectWithError(w, r, err, "/login", "/login")
		return
	}

	token, err := h.services.AuthService.CreateSession(ctx, user)
	if err != nil {
		h.redirectWithError(w, r, err, "/login", "/login")
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logout revokes the session and clears the cookie. Repeating it is harmless.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity := utils.GetIdentityFromContext(r.Context())

	if err := h.services.AuthService.Logout(r.Context(), identity); err != nil {
		logger.FromRequest(r).Err(err).Msg("error revoking session")
	}

	h.clearSessionCookie(w)
	h.redirectWithNotice(w, r, "/login", app.NoticeSuccess, app.MsgLoggedOut)
}
