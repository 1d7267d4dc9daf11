package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
)

// ImagesHandler serves stored images over HTTP.
type ImagesHandler struct {
	assets assets.Store
}

// NewImagesHandler creates a new images handler
func NewImagesHandler(assetStore assets.Store) *ImagesHandler {
	return &ImagesHandler{assets: assetStore}
}

// Routes returns the routes for stored images
func (h *ImagesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{filename}", h.Serve)
	return r
}

// Serve delivers one stored image: a redirect when the backend exposes an
// absolute URL (presigned object storage), a direct stream otherwise.
// Relative backend URLs are ignored here since they would point back at
// this endpoint.
func (h *ImagesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		respondError(w, r, http.StatusNotFound, "image not found")
		return
	}

	if url, err := h.assets.URL(r.Context(), name); err == nil && isAbsoluteURL(url) {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.assets.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "image not found")
			return
		}
		slog.Error("failed to open image", "image", name, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	defer rc.Close()

	if meta, err := h.assets.Meta(r.Context(), name); err == nil && meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("image stream interrupted", "image", name, "error", err)
	}
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
