package config

import "fmt"

// WithPort sets the server listen port.
func WithPort(port string) Option {
	return func(cfg *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		cfg.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment (development, production,
// testing).
func WithEnvironment(env string) Option {
	return func(cfg *ServerConfig) error {
		cfg.Environment = env
		return nil
	}
}

// WithMemoryDatabase stores collections in process memory.
func WithMemoryDatabase() Option {
	return func(cfg *ServerConfig) error {
		cfg.DatabaseType = "memory"
		cfg.DatabaseURL = ""
		return nil
	}
}

// WithFilesystemDatabase stores collections as JSON files under dataDir.
func WithFilesystemDatabase(dataDir string) Option {
	return func(cfg *ServerConfig) error {
		if dataDir == "" {
			return fmt.Errorf("data directory cannot be empty")
		}
		cfg.DatabaseType = "fs"
		cfg.DataDir = dataDir
		cfg.DatabaseURL = ""
		return nil
	}
}

// WithPostgresDatabase stores collections in PostgreSQL.
func WithPostgresDatabase(databaseURL string) Option {
	return func(cfg *ServerConfig) error {
		if databaseURL == "" {
			return fmt.Errorf("database URL cannot be empty")
		}
		cfg.DatabaseType = "postgres"
		cfg.DatabaseURL = databaseURL
		return nil
	}
}

// WithMemoryUploads keeps uploaded images in process memory.
func WithMemoryUploads() Option {
	return func(cfg *ServerConfig) error {
		cfg.UploadStorage = UploadStorageConfig{
			Type:   "memory",
			Config: map[string]interface{}{},
		}
		return nil
	}
}

// WithFilesystemUploads stores uploaded images under baseDir and serves
// them below urlPrefix.
func WithFilesystemUploads(baseDir, urlPrefix string) Option {
	return func(cfg *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("upload base directory cannot be empty")
		}
		cfg.UploadStorage = UploadStorageConfig{
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir":   baseDir,
				"url_prefix": urlPrefix,
			},
		}
		return nil
	}
}

// WithS3Uploads stores uploaded images in the named S3 bucket. Credentials
// resolve through the default AWS chain unless set in extra.
func WithS3Uploads(bucket, region string, extra map[string]interface{}) Option {
	return func(cfg *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		s3Config := map[string]interface{}{
			"bucket": bucket,
			"region": region,
		}
		for k, v := range extra {
			s3Config[k] = v
		}
		cfg.UploadStorage = UploadStorageConfig{
			Type:   "s3",
			Config: s3Config,
		}
		return nil
	}
}

// WithEventLogging toggles the logging event sink on catalog mutations.
func WithEventLogging(enabled bool) Option {
	return func(cfg *ServerConfig) error {
		cfg.EnableEventLogging = enabled
		return nil
	}
}
