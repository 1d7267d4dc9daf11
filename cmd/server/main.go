package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/webdevsint/coffee-lab-api/internal/api"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/admin"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog/config"
)

// Config holds the server-level settings the catalog library does not own:
// the admin credential and the session signing key.
type Config struct {
	AdminPasswordSHA256 string `env:"ADMIN_PASSWORD_SHA256"`
	JWTSecret           string `env:"JWT_SECRET"`
	SessionTTLMinutes   int    `env:"SESSION_TTL_MINUTES" env-default:"720"`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}
	if cfg.AdminPasswordSHA256 == "" {
		slog.Error("ADMIN_PASSWORD_SHA256 is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	// Fail fast on an unreachable database instead of serving errors.
	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL); err != nil {
			slog.Error("Database unreachable", "err", err)
			os.Exit(1)
		}
	}

	// The catalog service and the admin reports share one store so a
	// postgres deployment opens a single connection pool.
	store, err := serverConfig.BuildCollectionStore()
	if err != nil {
		slog.Error("Failed to build collection store", "err", err)
		os.Exit(1)
	}
	svc, err := serverConfig.BuildServiceWithStore(store)
	if err != nil {
		slog.Error("Failed to build catalog service", "err", err)
		os.Exit(1)
	}
	assetStore, err := serverConfig.BuildAssetStore()
	if err != nil {
		slog.Error("Failed to build asset store", "err", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Service:        svc,
		Assets:         assetStore,
		Reports:        admin.New(store),
		TokenAuth:      jwtauth.New("HS256", []byte(cfg.JWTSecret), nil),
		PasswordSHA256: cfg.AdminPasswordSHA256,
		SessionTTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		Environment:    serverConfig.Environment,
		ReadyCheck: func(r *http.Request) error {
			_, err := store.LoadAll(r.Context(), catalog.KindBeans)
			return err
		},
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Catalog server starting on port %s (env: %s)", serverConfig.Port, serverConfig.Environment)
		log.Printf("Collection store: %s", serverConfig.DatabaseType)
		log.Printf("Upload storage: %s", serverConfig.UploadStorage.Type)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
