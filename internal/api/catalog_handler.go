package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// CatalogHandler handles HTTP requests for the catalog collections.
// Mutating endpoints accept either a JSON body or a multipart form; the
// multipart path stores uploaded images before handing the field bag to
// the catalog service.
type CatalogHandler struct {
	service catalog.Service
	assets  assets.Store
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service catalog.Service, assetStore assets.Store) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		assets:  assetStore,
	}
}

// Routes returns the routes for the catalog collections. Reads are public;
// the supplied middleware chain gates the mutating endpoints.
func (h *CatalogHandler) Routes(requireAdmin ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/{entity}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{idOrSlug}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin...)
			r.Post("/", h.Create)
			r.Put("/{idOrSlug}", h.Update)
			r.Delete("/{idOrSlug}", h.Delete)
		})
	})

	return r
}

func kindFromRequest(r *http.Request) (catalog.Kind, error) {
	return catalog.ParseKind(chi.URLParam(r, "entity"))
}

// List returns every document of one collection
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	docs, err := h.service.GetAll(r.Context(), kind)
	if err != nil {
		slog.Error("failed to list collection", "kind", kind, "error", err)
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, docs)
}

// Get retrieves one document by id or slug
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	identifier := chi.URLParam(r, "idOrSlug")

	doc, err := h.service.GetByIDOrSlug(r.Context(), kind, identifier)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			slog.Error("failed to get document", "kind", kind, "identifier", identifier, "error", err)
		}
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, doc)
}

// Create adds a new document to a collection
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	fields, uploaded, err := h.readFields(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(uploaded) > 0 {
		fields[imagesField] = toValueList(uploaded)
	}

	doc, err := h.service.Create(r.Context(), kind, fields)
	if err != nil {
		h.discardImages(r.Context(), uploaded)
		slog.Error("failed to create document", "kind", kind, "error", err)
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

// Update patches an existing document by id or slug. Uploaded images are
// appended to the document's current list rather than replacing it.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	identifier := chi.URLParam(r, "idOrSlug")

	fields, uploaded, err := h.readFields(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(uploaded) > 0 {
		current, err := h.service.GetByIDOrSlug(r.Context(), kind, identifier)
		if err != nil {
			h.discardImages(r.Context(), uploaded)
			respondServiceError(w, r, err)
			return
		}
		existing, _ := current[imagesField].([]interface{})
		fields[imagesField] = append(existing, toValueList(uploaded)...)
	}

	doc, err := h.service.Update(r.Context(), kind, identifier, fields)
	if err != nil {
		h.discardImages(r.Context(), uploaded)
		if !errors.Is(err, catalog.ErrNotFound) {
			slog.Error("failed to update document", "kind", kind, "identifier", identifier, "error", err)
		}
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, doc)
}

// Delete removes a document by id or slug, then erases the image files it
// referenced. Image cleanup failures are logged, never surfaced: the
// document is already gone.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	identifier := chi.URLParam(r, "idOrSlug")

	doc, err := h.service.Delete(r.Context(), kind, identifier)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			slog.Error("failed to delete document", "kind", kind, "identifier", identifier, "error", err)
		}
		respondServiceError(w, r, err)
		return
	}

	if imgs, ok := doc[imagesField].([]interface{}); ok {
		for _, v := range imgs {
			name, ok := v.(string)
			if !ok || name == "" {
				continue
			}
			if err := h.assets.Delete(r.Context(), name); err != nil && !errors.Is(err, assets.ErrNotFound) {
				slog.Warn("failed to remove image of deleted document",
					"kind", kind, "id", doc.ID(), "image", name, "error", err)
			}
		}
	}

	render.JSON(w, r, doc)
}

// readFields extracts the raw field bag from the request body: multipart
// forms yield their text fields plus the stored names of any uploaded
// images, everything else is decoded as a JSON object.
func (h *CatalogHandler) readFields(r *http.Request) (map[string]interface{}, []string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, nil, errors.New("invalid multipart form")
		}
		fields := formFields(r.MultipartForm)
		uploaded, err := h.storeImages(r.Context(), r.MultipartForm)
		if err != nil {
			return nil, nil, err
		}
		return fields, uploaded, nil
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, nil, errors.New("invalid JSON body")
	}
	return fields, nil, nil
}

func toValueList(names []string) []interface{} {
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
