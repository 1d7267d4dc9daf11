package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
	fsassets "github.com/webdevsint/coffee-lab-api/pkg/assets/fs"
	memoryassets "github.com/webdevsint/coffee-lab-api/pkg/assets/memory"
	s3assets "github.com/webdevsint/coffee-lab-api/pkg/assets/s3"
	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
	repofs "github.com/webdevsint/coffee-lab-api/pkg/catalog/repo/fs"
	repomemory "github.com/webdevsint/coffee-lab-api/pkg/catalog/repo/memory"
	repopg "github.com/webdevsint/coffee-lab-api/pkg/catalog/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "fs",
		DataDir:      "./data",
		UploadStorage: UploadStorageConfig{
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir":   "./data/uploads",
				"url_prefix": "/images",
			},
		},
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Collection storage configuration
	DatabaseURL  string
	DatabaseType string // "memory", "fs", "postgres"
	DataDir      string // collection directory for the fs store

	// Uploaded image storage
	UploadStorage UploadStorageConfig

	// Server options
	EnableEventLogging bool
}

// UploadStorageConfig represents configuration for the image storage backend
type UploadStorageConfig struct {
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "fs":
		if c.DataDir == "" {
			return errors.New("data_dir is required when using the fs database")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return errors.New("database_type must be 'memory', 'fs' or 'postgres'")
	}

	switch c.UploadStorage.Type {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unsupported upload storage type: %s", c.UploadStorage.Type)
	}

	return nil
}

// BuildService creates a catalog.Service instance from the server configuration
func (c *ServerConfig) BuildService() (catalog.Service, error) {
	var options []catalog.Option

	store, err := c.buildCollectionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build collection store: %w", err)
	}
	options = append(options, catalog.WithStore(store))

	if c.EnableEventLogging {
		options = append(options, catalog.WithEventSink(catalog.NewLoggingEventSink(slog.Default())))
	}

	return catalog.New(options...)
}

// BuildServiceWithStore creates a catalog.Service over an already-built
// collection store. The server uses this to share one store (and one
// connection pool) between the catalog service and the admin reports.
func (c *ServerConfig) BuildServiceWithStore(store catalog.CollectionStore) (catalog.Service, error) {
	options := []catalog.Option{catalog.WithStore(store)}
	if c.EnableEventLogging {
		options = append(options, catalog.WithEventSink(catalog.NewLoggingEventSink(slog.Default())))
	}
	return catalog.New(options...)
}

// BuildCollectionStore exposes the configured collection store directly,
// for tooling (the admin CLI) that reads collections without a service.
func (c *ServerConfig) BuildCollectionStore() (catalog.CollectionStore, error) {
	return c.buildCollectionStore()
}

// buildCollectionStore creates a CollectionStore based on the configuration
func (c *ServerConfig) buildCollectionStore() (catalog.CollectionStore, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "fs":
		return repofs.New(repofs.Config{BaseDir: c.DataDir})
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		// Idempotent; deployments with managed migrations lose nothing.
		if err := repopg.EnsureSchema(context.Background(), pool); err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildAssetStore creates the uploaded-image store from the configuration
func (c *ServerConfig) BuildAssetStore() (assets.Store, error) {
	cfg := c.UploadStorage
	switch cfg.Type {
	case "memory":
		return memoryassets.New(), nil

	case "fs":
		fsConfig := fsassets.Config{
			BaseDir:   getString(cfg.Config, "base_dir", "./data/uploads"),
			URLPrefix: getString(cfg.Config, "url_prefix", "/images"),
		}
		return fsassets.New(fsConfig)

	case "s3":
		s3Config := s3assets.Config{
			Region:                 getString(cfg.Config, "region", "us-east-1"),
			Bucket:                 getString(cfg.Config, "bucket", ""),
			AccessKeyID:            getString(cfg.Config, "access_key_id", ""),
			SecretAccessKey:        getString(cfg.Config, "secret_access_key", ""),
			Endpoint:               getString(cfg.Config, "endpoint", ""),
			UsePathStyle:           getBool(cfg.Config, "use_path_style", false),
			PresignDuration:        getInt(cfg.Config, "presign_duration", 3600),
			EnableSSE:              getBool(cfg.Config, "enable_sse", false),
			SSEAlgorithm:           getString(cfg.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(cfg.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(cfg.Config, "create_bucket_if_not_exist", false),
		}
		return s3assets.New(s3Config)

	default:
		return nil, fmt.Errorf("unsupported upload storage type: %s", cfg.Type)
	}
}

// PingPostgres verifies connectivity to Postgres. Useful as a startup
// check before serving traffic.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

func getInt(config map[string]interface{}, key string, defaultValue int) int {
	if value, exists := config[key]; exists {
		if i, ok := value.(int); ok {
			return i
		}
		if str, ok := value.(string); ok {
			if i, err := strconv.Atoi(str); err == nil {
				return i
			}
		}
		if f, ok := value.(float64); ok {
			return int(f)
		}
	}
	return defaultValue
}
