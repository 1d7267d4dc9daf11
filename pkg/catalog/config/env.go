package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WithEnv loads configuration from environment variables with the given
// prefix. An empty prefix reads the bare variable names.
//
// Recognized variables (shown without prefix):
//
//	PORT                 server listen port
//	ENVIRONMENT          development, production or testing
//	DATABASE_URL         memory, file://<dir> or postgres://...
//	DATA_DIR             collection directory for the fs database
//	UPLOAD_STORAGE_URL   memory://, file://<dir> or s3://<bucket>
//	EVENT_LOGGING        enable event logging (default true)
//
// The s3 upload scheme additionally reads AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY, AWS_REGION, AWS_ENDPOINT_URL,
// S3_USE_PATH_STYLE and S3_CREATE_BUCKET.
func WithEnv(prefix string) Option {
	return func(cfg *ServerConfig) error {
		getEnv := func(key string) string {
			if prefix != "" {
				return os.Getenv(prefix + "_" + key)
			}
			return os.Getenv(key)
		}

		if port := getEnv("PORT"); port != "" {
			cfg.Port = port
		}
		if env := getEnv("ENVIRONMENT"); env != "" {
			cfg.Environment = env
		}

		if err := applyDatabaseEnv(cfg, getEnv); err != nil {
			return err
		}
		if err := applyUploadStorageEnv(cfg, getEnv); err != nil {
			return err
		}

		if v := getEnv("EVENT_LOGGING"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid EVENT_LOGGING value %q: %w", v, err)
			}
			cfg.EnableEventLogging = b
		}

		return nil
	}
}

// applyDatabaseEnv maps DATABASE_URL and DATA_DIR onto the collection
// store configuration. The database type is detected from the URL scheme.
func applyDatabaseEnv(cfg *ServerConfig, getEnv func(string) string) error {
	if dir := getEnv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	dbURL := getEnv("DATABASE_URL")
	if dbURL == "" {
		return nil
	}

	switch {
	case dbURL == "memory":
		cfg.DatabaseType = "memory"
		cfg.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "file://"):
		cfg.DatabaseType = "fs"
		if dir := strings.TrimPrefix(dbURL, "file://"); dir != "" {
			cfg.DataDir = dir
		}
		cfg.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://"):
		cfg.DatabaseType = "postgres"
		cfg.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL: %s", dbURL)
	}

	return nil
}

// applyUploadStorageEnv maps UPLOAD_STORAGE_URL onto the image storage
// configuration. S3 credentials come from the conventional AWS variables
// rather than the URL.
func applyUploadStorageEnv(cfg *ServerConfig, getEnv func(string) string) error {
	storageURL := getEnv("UPLOAD_STORAGE_URL")
	if storageURL == "" {
		return nil
	}

	switch {
	case storageURL == "memory://":
		cfg.UploadStorage = UploadStorageConfig{
			Type:   "memory",
			Config: map[string]interface{}{},
		}

	case strings.HasPrefix(storageURL, "file://"):
		baseDir := strings.TrimPrefix(storageURL, "file://")
		if baseDir == "" {
			baseDir = "./data/uploads"
		}
		cfg.UploadStorage = UploadStorageConfig{
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir":   baseDir,
				"url_prefix": "/images",
			},
		}

	case strings.HasPrefix(storageURL, "s3://"):
		bucket := strings.TrimPrefix(storageURL, "s3://")
		bucket = strings.TrimSuffix(bucket, "/")
		if bucket == "" {
			return fmt.Errorf("s3 UPLOAD_STORAGE_URL is missing a bucket: %s", storageURL)
		}
		s3Config := map[string]interface{}{
			"bucket": bucket,
		}
		if accessKey := os.Getenv("AWS_ACCESS_KEY_ID"); accessKey != "" {
			s3Config["access_key_id"] = accessKey
		}
		if secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY"); secretKey != "" {
			s3Config["secret_access_key"] = secretKey
		}
		if region := os.Getenv("AWS_REGION"); region != "" {
			s3Config["region"] = region
		}
		if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
			s3Config["endpoint"] = endpoint
		}
		if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
			s3Config["use_path_style"] = v
		}
		if v := os.Getenv("S3_CREATE_BUCKET"); v != "" {
			s3Config["create_bucket_if_not_exist"] = v
		}
		cfg.UploadStorage = UploadStorageConfig{
			Type:   "s3",
			Config: s3Config,
		}

	default:
		return fmt.Errorf("unsupported UPLOAD_STORAGE_URL: %s", storageURL)
	}

	return nil
}
