package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/admin"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Service catalog.Service
	Assets  assets.Store
	Reports admin.Service

	// Admin session settings. PasswordSHA256 is the hex-encoded digest of
	// the admin password.
	TokenAuth      *jwtauth.JWTAuth
	PasswordSHA256 string
	SessionTTL     time.Duration

	// Environment toggles development-only middleware (permissive CORS).
	Environment string

	// ReadyCheck backs the readiness probe; nil means always ready.
	ReadyCheck func(r *http.Request) error
}

// NewRouter assembles the public catalog API, the admin endpoints and the
// image delivery routes onto one router.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.Environment == "development" {
		r.Use(devCORS)
	}

	RoutesHealthz(r)
	RoutesHealthzReady(r, cfg.ReadyCheck)

	requireAdmin := []func(http.Handler) http.Handler{
		jwtauth.Verifier(cfg.TokenAuth),
		jwtauth.Authenticator,
	}

	r.Mount("/auth", NewAuthHandler(cfg.TokenAuth, cfg.PasswordSHA256, cfg.SessionTTL).Routes())
	r.Mount("/images", NewImagesHandler(cfg.Assets).Routes())
	r.Mount("/api", NewCatalogHandler(cfg.Service, cfg.Assets).Routes(requireAdmin...))

	if cfg.Reports != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin...)
			r.Mount("/", NewStatsHandler(cfg.Reports).Routes())
		})
	}

	return r
}

// devCORS allows any origin. Development only; production deployments sit
// behind a frontend proxy that owns the CORS policy.
func devCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
