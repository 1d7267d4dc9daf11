package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// RoutesHealthz registers the liveness probe.
func RoutesHealthz(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.PlainText(w, req, http.StatusText(http.StatusOK))
	})
}

// RoutesHealthzReady registers the readiness probe. check may be nil for
// deployments with nothing to warm up.
func RoutesHealthzReady(r chi.Router, check func(r *http.Request) error) {
	r.Get("/healthz/ready", func(w http.ResponseWriter, req *http.Request) {
		if check != nil {
			if err := check(req); err != nil {
				respondError(w, req, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		render.PlainText(w, req, http.StatusText(http.StatusOK))
	})
}
