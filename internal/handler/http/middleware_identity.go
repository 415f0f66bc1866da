package http

import (
	"net/http"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/rs/zerolog"
)

// withIdentity resolves the session cookie into the identity of the request
// and stores it under [utils.IdentityCtxKey]. Requests without a usable
// session continue anonymously; a stale cookie is cleared.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(h.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(ctx, nil)))
			return
		}

		identity, err := h.services.AuthService.ResolveIdentity(ctx, cookie.Value)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Msg("session cookie rejected")
			h.clearSessionCookie(w)
			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(ctx, nil)))
			return
		}

		l := logger.FromContext(ctx).GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", identity.UserID)
		})
		ctx = l.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(utils.WithIdentity(ctx, identity)))
	})
}

// requireAuthentication sends anonymous visitors to the login page.
func (h *Handler) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := service.RequireAuthenticated(utils.GetIdentityFromContext(r.Context())); err != nil {
			h.redirectWithError(w, r, err, "/login", "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}
