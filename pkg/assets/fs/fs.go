package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
)

// Backend is a filesystem implementation of the assets.Store interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // Optional public URL prefix (e.g. "/images")
}

// New creates a new filesystem storage backend
func New(config Config) (assets.Store, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// assetPath resolves name inside the base directory. Asset names are flat;
// anything carrying a path component is rejected.
func (b *Backend) assetPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return filepath.Join(b.baseDir, name), nil
}

// Save stores the named file on disk
func (b *Backend) Save(ctx context.Context, name string, reader io.Reader) error {
	path, err := b.assetPath(name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Open streams the named file from disk
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := b.assetPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, assets.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes the named file from disk
func (b *Backend) Delete(ctx context.Context, name string) error {
	path, err := b.assetPath(name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return assets.ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL under the configured prefix
func (b *Backend) URL(ctx context.Context, name string) (string, error) {
	if b.urlPrefix == "" {
		return "", assets.ErrNoDirectURL
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, name), nil
}

// Meta retrieves metadata for a stored file, sniffing the content type
// from the file's first bytes.
func (b *Backend) Meta(ctx context.Context, name string) (*assets.Meta, error) {
	path, err := b.assetPath(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, assets.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(path); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &assets.Meta{
		Name:        name,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}
