package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
)

// Backend is an in-memory implementation of the assets.Store interface
type Backend struct {
	mu           sync.RWMutex
	files        map[string][]byte
	contentTypes map[string]string
}

// New creates a new in-memory storage backend
func New() assets.Store {
	return &Backend{
		files:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Save stores the named file in memory
func (b *Backend) Save(ctx context.Context, name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[name] = data
	b.contentTypes[name] = http.DetectContentType(sniff)
	return nil
}

// Open streams the named file
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.files[name]
	if !exists {
		return nil, assets.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the named file
func (b *Backend) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.files[name]; !exists {
		return assets.ErrNotFound
	}
	delete(b.files, name)
	delete(b.contentTypes, name)
	return nil
}

// URL is unsupported; in-memory content must be streamed through Open
func (b *Backend) URL(ctx context.Context, name string) (string, error) {
	return "", assets.ErrNoDirectURL
}

// Meta retrieves metadata for a stored file
func (b *Backend) Meta(ctx context.Context, name string) (*assets.Meta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.files[name]
	if !exists {
		return nil, assets.ErrNotFound
	}
	return &assets.Meta{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: b.contentTypes[name],
	}, nil
}
