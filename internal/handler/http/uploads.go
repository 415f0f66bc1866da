package http

import (
	"mime"
	"net/http"

	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/go-chi/chi/v5"
)

// downloadAttachment serves a stored PDF inline under its original name.
// Range and conditional requests are handled by [http.ServeContent]. Keys
// that do not name a file inside the upload directory answer 404.
func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	key := chi.URLParam(r, "filename")
	file, err := h.services.BookService.FetchAttachment(ctx, utils.GetIdentityFromContext(ctx), key)
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			log.Err(err).Str("key", key).Msg("error fetching attachment")
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	defer func() {
		if err := file.Content.Close(); err != nil {
			log.Err(err).Str("key", key).Msg("error closing attachment")
		}
	}()

	w.Header().Set("Content-Type", "application/pdf")
	if disposition := mime.FormatMediaType("inline", map[string]string{"filename": file.Name}); disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(w, r, file.Name, file.ModTime, file.Content)
}
