package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-library-keeper/internal/app"
	"github.com/MKhiriev/go-library-keeper/models"
)

const (
	noticeCookieName = "library_notice"
	noticeMaxAge     = 60

	// maxNoticeLength bounds the text a notice cookie may carry, in runes.
	maxNoticeLength = 200
)

// notice is a one-shot message shown on the next rendered page.
type notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token models.SessionToken) {
	expires := token.Expires()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token.String(),
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) setNotice(w http.ResponseWriter, kind, text string) {
	raw, err := json.Marshal(notice{Kind: kind, Text: text})
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   noticeMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice returns the pending notice, if any, and clears its cookie.
// A malformed or oversized cookie is dropped silently.
func (h *Handler) popNotice(w http.ResponseWriter, r *http.Request) *notice {
	cookie, err := r.Cookie(noticeCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var n notice
	if err = json.Unmarshal(raw, &n); err != nil || n.Text == "" {
		return nil
	}
	if utf8.RuneCountInString(n.Text) > maxNoticeLength {
		return nil
	}
	if n.Kind != app.NoticeSuccess {
		n.Kind = app.NoticeError
	}
	return &n
}

// redirectWithNotice answers a form submission with 303 See Other.
func (h *Handler) redirectWithNotice(w http.ResponseWriter, r *http.Request, url, kind, text string) {
	if text != "" {
		h.setNotice(w, kind, text)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
